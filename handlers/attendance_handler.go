package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
	"github.com/kyllercodes02/academy-sub000/services"
)

type AttendanceHandler struct {
	DB  *gorm.DB
	Svc *services.AttendanceService
}

func NewAttendanceHandler(db *gorm.DB, svc *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{DB: db, Svc: svc}
}

// GET /attendance?start=YYYY-MM-DD&end=YYYY-MM-DD&student_id=&section_id=&statuses=present,late,absent&q=
func (h *AttendanceHandler) List(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	studentID := strings.TrimSpace(c.QueryParam("student_id"))
	sectionID := strings.TrimSpace(c.QueryParam("section_id"))
	statuses := strings.TrimSpace(c.QueryParam("statuses"))
	q := strings.TrimSpace(c.QueryParam("q"))

	tx := h.DB.Model(&models.Attendance{})
	if start != "" && end != "" {
		tx = tx.Where("date >= ? AND date <= ?", start, end)
	}
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	if parts := splitCSV(statuses); len(parts) > 0 {
		tx = tx.Where("status IN ?", parts)
	}
	if sectionID != "" || q != "" {
		tx = tx.Joins("JOIN students s ON s.id = attendances.student_id")
		if sectionID != "" {
			tx = tx.Where("s.section_id = ?", sectionID)
		}
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			tx = tx.Where("LOWER(s.lrn) LIKE ? OR LOWER(s.first_name) LIKE ? OR LOWER(s.last_name) LIKE ?",
				like, like, like)
		}
	}

	var rows []models.Attendance
	if err := tx.Order("date ASC, student_id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

type markReq struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
	Remarks   string `json:"remarks"`
}

// POST /attendance/mark
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	var cnt int64
	h.DB.Model(&models.Student{}).Where("id = ?", req.StudentID).Count(&cnt)
	if cnt == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	rec, err := h.Svc.Record(req.StudentID, req.Date, models.AttendanceStatus(req.Status), strings.TrimSpace(req.Remarks))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

type checkOutReq struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// POST /attendance/checkout
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	var req checkOutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	rec, err := h.Svc.CheckOut(req.StudentID, req.Date)
	if err != nil {
		if errors.Is(err, services.ErrAttendanceNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NO_CHECK_IN"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

type bulkMarkReq struct {
	SectionID *uint  `json:"section_id"` // nil marks every active student
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// POST /attendance/bulk
func (h *AttendanceHandler) BulkMark(c echo.Context) error {
	var req bulkMarkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	rows, err := h.Svc.BulkMark(req.SectionID, req.Date, models.AttendanceStatus(req.Status))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "BULK_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"marked": len(rows)})
}
