package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
	"github.com/kyllercodes02/academy-sub000/services"
)

type ScheduleHandler struct {
	DB  *gorm.DB
	Svc *services.ScheduleService
}

func NewScheduleHandler(db *gorm.DB, svc *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{DB: db, Svc: svc}
}

type schedulePayload struct {
	SectionID   uint   `json:"section_id" validate:"required"`
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=80"`
	TeacherName string `json:"teacher_name" validate:"omitempty,max=100"`
	Room        string `json:"room" validate:"omitempty,max=30"`
}

// titleDay normalizes "monday"/"MONDAY" to "Monday".
func titleDay(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p *schedulePayload) normalize() {
	p.Day = titleDay(p.Day)
	p.StartTime = strings.TrimSpace(p.StartTime)
	p.EndTime = strings.TrimSpace(p.EndTime)
	p.Subject = strings.TrimSpace(p.Subject)
	p.TeacherName = strings.TrimSpace(p.TeacherName)
	p.Room = strings.TrimSpace(p.Room)
}

// check runs the input-layer rules: weekday set and ordered time range.
func (p *schedulePayload) check() map[string]string {
	errs := map[string]string{}
	if !models.Weekdays[p.Day] {
		errs["day"] = "must be a weekday name (Monday..Sunday)"
	}
	if err := services.ValidateTimeRange(p.StartTime, p.EndTime); err != nil {
		errs["start_time"] = err.Error()
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *schedulePayload) toModel(id uint) models.Schedule {
	return models.Schedule{
		ID:        id,
		SectionID: p.SectionID,
		Day:       p.Day, StartTime: p.StartTime, EndTime: p.EndTime,
		Subject: p.Subject, TeacherName: p.TeacherName, Room: p.Room,
	}
}

// GET /schedules?section_id=&day=
func (h *ScheduleHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.Schedule{})
	if v := strings.TrimSpace(c.QueryParam("section_id")); v != "" {
		tx = tx.Where("section_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("day")); v != "" {
		tx = tx.Where("day = ?", v)
	}
	var rows []models.Schedule
	if err := tx.Order("section_id ASC, day ASC, start_time ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ScheduleHandler) Get(c echo.Context) error {
	var row models.Schedule
	if err := h.DB.First(&row, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ScheduleHandler) bindPayload(c echo.Context) (*schedulePayload, error) {
	var p schedulePayload
	if err := c.Bind(&p); err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	if errs := p.check(); errs != nil {
		return nil, c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}
	return &p, nil
}

func (h *ScheduleHandler) Create(c echo.Context) error {
	p, err := h.bindPayload(c)
	if p == nil {
		return err
	}
	row, err := h.Svc.Create(p.toModel(0))
	if err != nil {
		if errors.Is(err, services.ErrScheduleConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "SCHEDULE_CONFLICT"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *ScheduleHandler) Update(c echo.Context) error {
	var cur models.Schedule
	if err := h.DB.First(&cur, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	p, err := h.bindPayload(c)
	if p == nil {
		return err
	}
	m := p.toModel(cur.ID)
	m.CreatedAt = cur.CreatedAt
	row, err := h.Svc.Update(m)
	if err != nil {
		if errors.Is(err, services.ErrScheduleConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "SCHEDULE_CONFLICT"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ScheduleHandler) Delete(c echo.Context) error {
	if err := h.DB.Delete(&models.Schedule{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /schedules/bulk
// All rows validate first, then insert atomically; any conflict aborts
// the whole batch.
func (h *ScheduleHandler) BulkCreate(c echo.Context) error {
	var arr []schedulePayload
	if err := c.Bind(&arr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	rows := make([]models.Schedule, 0, len(arr))
	for i := range arr {
		arr[i].normalize()
		if err := validate.Struct(&arr[i]); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "index": i, "fields": fieldErrors(err)})
		}
		if errs := arr[i].check(); errs != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "index": i, "fields": errs})
		}
		rows = append(rows, arr[i].toModel(0))
	}

	out, err := h.Svc.BulkCreate(rows)
	if err != nil {
		if errors.Is(err, services.ErrScheduleConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "SCHEDULE_CONFLICT", "detail": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"inserted": len(out)})
}

var scheduleCSVHeader = []string{"section_id", "day", "start_time", "end_time", "subject", "teacher_name", "room"}

// parseScheduleRow maps one CSV record to a payload; the day check runs
// before any conflict check, as with the JSON endpoints.
func parseScheduleRow(cols map[string]int, rec []string) (*schedulePayload, error) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	sid, err := strconv.Atoi(get("section_id"))
	if err != nil || sid <= 0 {
		return nil, fmt.Errorf("section_id: must be a positive integer")
	}
	p := schedulePayload{
		SectionID:   uint(sid),
		Day:         get("day"),
		StartTime:   get("start_time"),
		EndTime:     get("end_time"),
		Subject:     get("subject"),
		TeacherName: get("teacher_name"),
		Room:        get("room"),
	}
	p.normalize()
	if p.Subject == "" {
		return nil, fmt.Errorf("subject: required")
	}
	if !models.Weekdays[p.Day] {
		return nil, fmt.Errorf("day: %q is not a weekday name", p.Day)
	}
	if err := services.ValidateTimeRange(p.StartTime, p.EndTime); err != nil {
		return nil, fmt.Errorf("start_time: %v", err)
	}
	return &p, nil
}

// POST /schedules/import  (body: text/csv)
// Unlike bulk create, import commits row by row and reports per-row
// errors instead of aborting the batch.
func (h *ScheduleHandler) ImportCSV(c echo.Context) error {
	r := csv.NewReader(c.Request().Body)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_CSV"})
	}
	cols := map[string]int{}
	for i, hname := range header {
		cols[strings.ToLower(strings.TrimSpace(hname))] = i
	}
	for _, required := range []string{"section_id", "day", "start_time", "end_time", "subject"} {
		if _, ok := cols[required]; !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_COLUMN", "column": required})
		}
	}

	var created int
	var rowErrs []importRowError
	rowNum := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, importRowError{Row: rowNum, Message: "malformed CSV row"})
			continue
		}
		p, err := parseScheduleRow(cols, rec)
		if err != nil {
			rowErrs = append(rowErrs, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if _, err := h.Svc.Create(p.toModel(0)); err != nil {
			rowErrs = append(rowErrs, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		created++
	}

	return c.JSON(http.StatusOK, map[string]any{"created": created, "errors": rowErrs})
}

// GET /schedules/export
func (h *ScheduleHandler) ExportCSV(c echo.Context) error {
	tx := h.DB.Order("section_id ASC, day ASC, start_time ASC")
	if v := strings.TrimSpace(c.QueryParam("section_id")); v != "" {
		tx = tx.Where("section_id = ?", v)
	}
	var rows []models.Schedule
	if err := tx.Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="schedules.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(scheduleCSVHeader); err != nil {
		return err
	}
	for _, s := range rows {
		if err := w.Write([]string{
			strconv.FormatUint(uint64(s.SectionID), 10),
			s.Day, s.StartTime, s.EndTime, s.Subject, s.TeacherName, s.Room,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
