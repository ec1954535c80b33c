package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/config"
	"github.com/kyllercodes02/academy-sub000/models"
)

// Connect opens the database and migrates the schema. Callers hold the
// returned handle; nothing here is package-global.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.School{},
		&models.GradeLevel{},
		&models.Section{},
		&models.Teacher{},
		&models.User{},
		&models.Guardian{},
		&models.Student{},
		&models.AuthorizedPerson{},
		&models.Attendance{},
		&models.Schedule{},
		&models.Announcement{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
