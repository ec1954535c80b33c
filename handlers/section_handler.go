package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

// SectionHandler covers sections and the grade-level reference list.
type SectionHandler struct {
	DB *gorm.DB
}

func NewSectionHandler(db *gorm.DB) *SectionHandler { return &SectionHandler{DB: db} }

type sectionPayload struct {
	Name         string `json:"name" validate:"required,max=60"`
	GradeLevelID uint   `json:"grade_level_id" validate:"required"`
	AdviserID    *uint  `json:"adviser_id"`
}

// GET /sections?grade_level_id=
func (h *SectionHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.Section{})
	if v := strings.TrimSpace(c.QueryParam("grade_level_id")); v != "" {
		tx = tx.Where("grade_level_id = ?", v)
	}
	var rows []models.Section
	if err := tx.Order("grade_level_id ASC, name ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) Create(c echo.Context) error {
	var p sectionPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	var cnt int64
	h.DB.Model(&models.GradeLevel{}).Where("id = ?", p.GradeLevelID).Count(&cnt)
	if cnt == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"grade_level_id": "unknown grade level"}})
	}

	// one section name per grade level
	h.DB.Model(&models.Section{}).
		Where("grade_level_id = ? AND name = ?", p.GradeLevelID, strings.TrimSpace(p.Name)).
		Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "DUP_SECTION_NAME"})
	}

	row := models.Section{Name: strings.TrimSpace(p.Name), GradeLevelID: p.GradeLevelID, AdviserID: p.AdviserID}
	if err := h.DB.Create(&row).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *SectionHandler) Update(c echo.Context) error {
	var cur models.Section
	if err := h.DB.First(&cur, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p sectionPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	var cnt int64
	h.DB.Model(&models.Section{}).
		Where("grade_level_id = ? AND name = ? AND id <> ?", p.GradeLevelID, strings.TrimSpace(p.Name), cur.ID).
		Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "DUP_SECTION_NAME"})
	}

	cur.Name = strings.TrimSpace(p.Name)
	cur.GradeLevelID = p.GradeLevelID
	cur.AdviserID = p.AdviserID
	if err := h.DB.Save(&cur).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *SectionHandler) Delete(c echo.Context) error {
	var cnt int64
	h.DB.Model(&models.Student{}).Where("section_id = ?", c.Param("id")).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "SECTION_HAS_STUDENTS"})
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// section owns its schedule rows
		if err := tx.Delete(&models.Schedule{}, "section_id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Section{}, "id = ?", c.Param("id")).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /grade-levels
func (h *SectionHandler) ListGradeLevels(c echo.Context) error {
	var rows []models.GradeLevel
	if err := h.DB.Order("id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

type gradeLevelPayload struct {
	Name string `json:"name" validate:"required,max=30"`
}

func (h *SectionHandler) CreateGradeLevel(c echo.Context) error {
	var p gradeLevelPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	row := models.GradeLevel{Name: strings.TrimSpace(p.Name)}
	if err := h.DB.Create(&row).Error; err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "DUP_GRADE_LEVEL"})
	}
	return c.JSON(http.StatusCreated, row)
}
