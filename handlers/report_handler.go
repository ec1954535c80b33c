package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
	"github.com/kyllercodes02/academy-sub000/reports"
)

type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler { return &ReportHandler{DB: db} }

// GET /reports/sf2?section_id=&grade_level_id=&month=&year=&format=json|pdf|csv
func (h *ReportHandler) SF2(c echo.Context) error {
	sectionID := atoiOr(c.QueryParam("section_id"), 0)
	gradeLevelID := atoiOr(c.QueryParam("grade_level_id"), 0)
	month := atoiOr(c.QueryParam("month"), 0)
	year := atoiOr(c.QueryParam("year"), 0)
	if sectionID <= 0 || gradeLevelID <= 0 || month < 1 || month > 12 || year < 2000 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{
			"section_id": "section_id, grade_level_id, month (1-12) and year are required",
		}})
	}

	var section models.Section
	if err := h.DB.First(&section, "id = ? AND grade_level_id = ?", sectionID, gradeLevelID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "SECTION_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	rep, err := reports.Build(h.DB, uint(sectionID), uint(gradeLevelID), time.Month(month), year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "REPORT_FAILED"})
	}

	switch strings.ToLower(c.QueryParam("format")) {
	case "", "json":
		return c.JSON(http.StatusOK, rep)
	case "csv":
		out, err := reports.RenderCSV(rep)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RENDER_FAILED"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sf2.csv"`)
		return c.Blob(http.StatusOK, "text/csv", out)
	case "pdf":
		var school models.School
		// header prints blank school fields when the profile is missing
		_ = h.DB.First(&school).Error
		out, err := reports.RenderPDF(rep, school, section.Name)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RENDER_FAILED"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sf2.pdf"`)
		return c.Blob(http.StatusOK, "application/pdf", out)
	default:
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"format": "must be json, pdf or csv"}})
	}
}
