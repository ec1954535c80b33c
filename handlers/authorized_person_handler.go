package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

type AuthorizedPersonHandler struct {
	DB *gorm.DB
}

func NewAuthorizedPersonHandler(db *gorm.DB) *AuthorizedPersonHandler {
	return &AuthorizedPersonHandler{DB: db}
}

type authorizedPersonPayload struct {
	Name         string `json:"name" validate:"required,max=100"`
	Relationship string `json:"relationship" validate:"omitempty,max=30"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	IsPrimary    bool   `json:"is_primary"`
}

func (h *AuthorizedPersonHandler) findStudent(c echo.Context) (*models.Student, error) {
	var s models.Student
	if err := h.DB.First(&s, "id = ?", c.Param("studentId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
		}
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return &s, nil
}

// GET /students/:studentId/authorized-persons
func (h *AuthorizedPersonHandler) List(c echo.Context) error {
	s, err := h.findStudent(c)
	if s == nil {
		return err
	}
	var rows []models.AuthorizedPerson
	if err := h.DB.Where("student_id = ?", s.ID).Order("is_primary DESC, name ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /students/:studentId/authorized-persons
// Setting is_primary flips any other primary off inside the same
// transaction, so the student never has two primaries.
func (h *AuthorizedPersonHandler) Create(c echo.Context) error {
	s, err := h.findStudent(c)
	if s == nil {
		return err
	}
	var p authorizedPersonPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	row := models.AuthorizedPerson{
		StudentID:    s.ID,
		Name:         strings.TrimSpace(p.Name),
		Relationship: strings.TrimSpace(p.Relationship),
		Phone:        strings.TrimSpace(p.Phone),
		IsPrimary:    p.IsPrimary,
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if row.IsPrimary {
			if err := tx.Model(&models.AuthorizedPerson{}).
				Where("student_id = ? AND is_primary = ?", s.ID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, row)
}

// PUT /students/:studentId/authorized-persons/:id
func (h *AuthorizedPersonHandler) Update(c echo.Context) error {
	s, err := h.findStudent(c)
	if s == nil {
		return err
	}
	var cur models.AuthorizedPerson
	if err := h.DB.First(&cur, "id = ? AND student_id = ?", c.Param("id"), s.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p authorizedPersonPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	cur.Name = strings.TrimSpace(p.Name)
	cur.Relationship = strings.TrimSpace(p.Relationship)
	cur.Phone = strings.TrimSpace(p.Phone)
	cur.IsPrimary = p.IsPrimary

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if cur.IsPrimary {
			if err := tx.Model(&models.AuthorizedPerson{}).
				Where("student_id = ? AND is_primary = ? AND id <> ?", s.ID, true, cur.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&cur).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}

// DELETE /students/:studentId/authorized-persons/:id
func (h *AuthorizedPersonHandler) Delete(c echo.Context) error {
	s, err := h.findStudent(c)
	if s == nil {
		return err
	}
	if err := h.DB.Delete(&models.AuthorizedPerson{}, "id = ? AND student_id = ?", c.Param("id"), s.ID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
