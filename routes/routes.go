package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/config"
	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/handlers"
	"github.com/kyllercodes02/academy-sub000/middlewares"
	"github.com/kyllercodes02/academy-sub000/services"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config, hub *events.Hub) {
	attSvc := services.NewAttendanceService(db, hub, cfg.LateCutoff)
	schedSvc := services.NewScheduleService(db, hub)

	auth := handlers.NewAuthHandler(db, cfg.JWTSecret)
	std := handlers.NewStudentHandler(db)
	tch := handlers.NewTeacherHandler(db)
	sec := handlers.NewSectionHandler(db)
	att := handlers.NewAttendanceHandler(db, attSvc)
	chk := handlers.NewCheckinHandler(attSvc)
	sch := handlers.NewScheduleHandler(db, schedSvc)
	rep := handlers.NewReportHandler(db)
	ann := handlers.NewAnnouncementHandler(db, hub)
	ap := handlers.NewAuthorizedPersonHandler(db)
	acc := handlers.NewAccountHandler(db)
	prof := handlers.NewProfileHandler(db)
	grd := handlers.NewGuardianHandler(db)
	dash := handlers.NewDashboardHandler(db)
	school := handlers.NewSchoolHandler(db)

	e.GET("/health", handlers.Health)

	// live updates for dashboards
	e.GET("/ws", func(c echo.Context) error {
		return hub.Serve(c.Response(), c.Request())
	})

	// ===== Public auth =====
	e.POST("/auth/staff/login", auth.StaffLogin)
	e.POST("/auth/guardians/register", auth.GuardianRegister)
	e.POST("/auth/guardians/login", auth.GuardianLogin)

	// ===== Card reader terminal =====
	e.POST("/checkin/tap", chk.Tap, middlewares.RequireTerminal(cfg.TerminalToken))

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Staff routes (teacher + admin) =====
	staff := e.Group("", authMW, middlewares.RequireRole("teacher", "admin"))

	staff.GET("/students", std.List)
	staff.GET("/students/:id", std.Get)
	staff.GET("/students/export", std.ExportCSV)

	staff.GET("/sections", sec.List)
	staff.GET("/grade-levels", sec.ListGradeLevels)

	staff.GET("/attendance", att.List)
	staff.POST("/attendance/mark", att.Mark)
	staff.POST("/attendance/checkout", att.CheckOut)
	staff.POST("/attendance/bulk", att.BulkMark)

	staff.GET("/schedules", sch.List)
	staff.GET("/schedules/export", sch.ExportCSV)
	staff.GET("/schedules/:id", sch.Get)

	staff.GET("/reports/sf2", rep.SF2)

	staff.GET("/announcements", ann.List)
	staff.GET("/announcements/:id", ann.Get)

	staff.GET("/students/:studentId/authorized-persons", ap.List)
	staff.POST("/students/:studentId/authorized-persons", ap.Create)
	staff.PUT("/students/:studentId/authorized-persons/:id", ap.Update)
	staff.DELETE("/students/:studentId/authorized-persons/:id", ap.Delete)

	staff.GET("/dashboard/daily", dash.Daily)
	staff.GET("/dashboard/summary", dash.Summary)

	staff.PUT("/profile/password", prof.ChangePassword)

	// ===== Admin routes =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))

	admin.GET("/school", school.Get)
	admin.PUT("/school", school.Upsert)

	admin.POST("/students", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)
	admin.PUT("/students/:id/card", std.RegisterCard)
	admin.POST("/students/import", std.ImportCSV)

	admin.GET("/teachers", tch.List)
	admin.POST("/teachers", tch.Create)
	admin.PUT("/teachers/:id", tch.Update)
	admin.DELETE("/teachers/:id", tch.Delete)

	admin.POST("/sections", sec.Create)
	admin.PUT("/sections/:id", sec.Update)
	admin.DELETE("/sections/:id", sec.Delete)
	admin.POST("/grade-levels", sec.CreateGradeLevel)

	admin.POST("/schedules", sch.Create)
	admin.PUT("/schedules/:id", sch.Update)
	admin.DELETE("/schedules/:id", sch.Delete)
	admin.POST("/schedules/bulk", sch.BulkCreate)
	admin.POST("/schedules/import", sch.ImportCSV)

	admin.POST("/announcements", ann.Create)
	admin.PUT("/announcements/:id", ann.Update)
	admin.DELETE("/announcements/:id", ann.Delete)

	admin.GET("/guardians", grd.List)
	admin.PUT("/guardians/:id", grd.Update)

	admin.GET("/accounts", acc.List)
	admin.POST("/accounts", acc.Create)
	admin.POST("/accounts/:id/reset", acc.ResetPassword)

	// ===== Guardian portal =====
	guardian := e.Group("/guardian", authMW, middlewares.RequireRole("guardian"))
	guardian.GET("/children", grd.Children)
	guardian.GET("/children/:id/attendance", grd.ChildAttendance)
	guardian.GET("/announcements", ann.List)
}
