package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

type GuardianHandler struct {
	DB *gorm.DB
}

func NewGuardianHandler(db *gorm.DB) *GuardianHandler { return &GuardianHandler{DB: db} }

// GET /admin/guardians?q=
func (h *GuardianHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	page, size := pageParams(c)

	tx := h.DB.Model(&models.Guardian{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Guardian
	if err := tx.Order("last_name ASC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

type guardianUpdateReq struct {
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Relationship string `json:"relationship" validate:"omitempty,oneof=mother father guardian"`
}

// PUT /admin/guardians/:id
func (h *GuardianHandler) Update(c echo.Context) error {
	var g models.Guardian
	if err := h.DB.First(&g, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var req guardianUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	g.FirstName = strings.TrimSpace(req.FirstName)
	g.LastName = strings.TrimSpace(req.LastName)
	g.Phone = strings.TrimSpace(req.Phone)
	if req.Relationship != "" {
		g.Relationship = req.Relationship
	}
	if err := h.DB.Save(&g).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GuardianHandler) profileFor(c echo.Context) (*models.Guardian, error) {
	userID, _ := c.Get("user_id").(uint)
	var g models.Guardian
	if err := h.DB.First(&g, "user_id = ?", userID).Error; err != nil {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "PROFILE_NOT_FOUND"})
	}
	return &g, nil
}

// GET /guardian/children
// The guardian portal: the students linked to the signed-in guardian.
func (h *GuardianHandler) Children(c echo.Context) error {
	g, err := h.profileFor(c)
	if g == nil {
		return err
	}
	var students []models.Student
	if err := h.DB.
		Joins("JOIN student_guardians sg ON sg.student_id = students.id").
		Where("sg.guardian_id = ?", g.ID).
		Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, students)
}

// GET /guardian/children/:id/attendance?start=&end=
func (h *GuardianHandler) ChildAttendance(c echo.Context) error {
	g, err := h.profileFor(c)
	if g == nil {
		return err
	}

	// the child must actually belong to this guardian
	var cnt int64
	h.DB.Table("student_guardians").
		Where("guardian_id = ? AND student_id = ?", g.ID, c.Param("id")).
		Count(&cnt)
	if cnt == 0 {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	tx := h.DB.Where("student_id = ?", c.Param("id"))
	if start := strings.TrimSpace(c.QueryParam("start")); start != "" {
		tx = tx.Where("date >= ?", start)
	}
	if end := strings.TrimSpace(c.QueryParam("end")); end != "" {
		tx = tx.Where("date <= ?", end)
	}
	var rows []models.Attendance
	if err := tx.Order("date ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
