package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kyllercodes02/academy-sub000/config"
	"github.com/kyllercodes02/academy-sub000/database"
	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/routes"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	hub := events.NewHub()
	go hub.Run()
	defer hub.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, db, cfg, hub)

	log.Fatal(e.Start(":" + cfg.AppPort))
}
