package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

// SchoolHandler manages the single school profile printed on reports.
type SchoolHandler struct {
	DB *gorm.DB
}

func NewSchoolHandler(db *gorm.DB) *SchoolHandler { return &SchoolHandler{DB: db} }

func (h *SchoolHandler) Get(c echo.Context) error {
	var s models.School
	if err := h.DB.First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_CONFIGURED"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

type schoolPayload struct {
	SchoolID   string `json:"school_id" validate:"required,max=20"`
	Name       string `json:"name" validate:"required,max=120"`
	Region     string `json:"region" validate:"omitempty,max=60"`
	Division   string `json:"division" validate:"omitempty,max=60"`
	District   string `json:"district" validate:"omitempty,max=60"`
	SchoolYear string `json:"school_year" validate:"omitempty,max=12"`
}

// PUT /admin/school — creates the profile on first call, updates after.
func (h *SchoolHandler) Upsert(c echo.Context) error {
	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	var s models.School
	err := h.DB.First(&s).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	s.SchoolID = strings.TrimSpace(p.SchoolID)
	s.Name = strings.TrimSpace(p.Name)
	s.Region = strings.TrimSpace(p.Region)
	s.Division = strings.TrimSpace(p.Division)
	s.District = strings.TrimSpace(p.District)
	s.SchoolYear = strings.TrimSpace(p.SchoolYear)

	if err := h.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}
