package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// GET /dashboard/daily?date=YYYY-MM-DD&section_id=
// One row per student of the section with that day's mark, plus counts.
func (h *DashboardHandler) Daily(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	sectionID := strings.TrimSpace(c.QueryParam("section_id"))

	type row struct {
		StudentID uint       `json:"student_id"`
		LRN       string     `json:"lrn"`
		Name      string     `json:"name"`
		Status    *string    `json:"status"` // null = no record yet
		CheckIn   *time.Time `json:"check_in_time"`
		CheckOut  *time.Time `json:"check_out_time"`
	}

	tx := h.DB.Table("students s").
		Select(`s.id AS student_id, s.lrn,
			s.last_name || ', ' || s.first_name AS name,
			a.status, a.check_in AS check_in, a.check_out AS check_out`).
		Joins("LEFT JOIN attendances a ON a.student_id = s.id AND a.date = ?", date).
		Where("s.status = ? AND s.deleted_at IS NULL", "active")
	if sectionID != "" {
		tx = tx.Where("s.section_id = ?", sectionID)
	}

	var rows []row
	if err := tx.Order("s.last_name ASC, s.first_name ASC").Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	counts := map[string]int{"present": 0, "late": 0, "absent": 0, "unmarked": 0}
	for _, r := range rows {
		if r.Status == nil {
			counts["unmarked"]++
			continue
		}
		counts[*r.Status]++
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":   date,
		"rows":   rows,
		"counts": counts,
	})
}

// GET /dashboard/summary
func (h *DashboardHandler) Summary(c echo.Context) error {
	var (
		cntStudents      int64
		cntTeachers      int64
		cntSections      int64
		cntAnnouncements int64
	)
	h.DB.Model(&models.Student{}).Where("status = ?", "active").Count(&cntStudents)
	h.DB.Model(&models.Teacher{}).Count(&cntTeachers)
	h.DB.Model(&models.Section{}).Count(&cntSections)
	h.DB.Model(&models.Announcement{}).Where("is_active = ?", true).Count(&cntAnnouncements)

	return c.JSON(http.StatusOK, map[string]any{
		"students":      cntStudents,
		"teachers":      cntTeachers,
		"sections":      cntSections,
		"announcements": cntAnnouncements,
	})
}
