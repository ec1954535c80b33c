package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

type TeacherHandler struct {
	DB *gorm.DB
}

func NewTeacherHandler(db *gorm.DB) *TeacherHandler { return &TeacherHandler{DB: db} }

type teacherPayload struct {
	EmployeeNo string `json:"employee_no" validate:"required,max=20"`
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Phone      string `json:"phone" validate:"omitempty,max=15"`
	Email      string `json:"email" validate:"required,email,max=80"`
	Position   string `json:"position" validate:"omitempty,max=50"`
}

func (p *teacherPayload) normalize() {
	p.EmployeeNo = strings.TrimSpace(p.EmployeeNo)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Position = strings.TrimSpace(p.Position)
}

func (h *TeacherHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	page, size := pageParams(c)

	tx := h.DB.Model(&models.Teacher{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("employee_no ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			like, like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Teacher
	if err := tx.Order("last_name ASC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

func (h *TeacherHandler) Create(c echo.Context) error {
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	t := models.Teacher{
		EmployeeNo: p.EmployeeNo, FirstName: p.FirstName, LastName: p.LastName,
		Phone: p.Phone, Email: p.Email, Position: p.Position,
	}
	if err := h.DB.Create(&t).Error; err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "DUP_TEACHER"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TeacherHandler) Update(c echo.Context) error {
	var cur models.Teacher
	if err := h.DB.First(&cur, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	cur.EmployeeNo = p.EmployeeNo
	cur.FirstName = p.FirstName
	cur.LastName = p.LastName
	cur.Phone = p.Phone
	cur.Email = p.Email
	cur.Position = p.Position
	if err := h.DB.Save(&cur).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *TeacherHandler) Delete(c echo.Context) error {
	if err := h.DB.Delete(&models.Teacher{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
