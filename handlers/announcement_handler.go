package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/models"
)

type AnnouncementHandler struct {
	DB  *gorm.DB
	Pub events.Publisher
}

func NewAnnouncementHandler(db *gorm.DB, pub events.Publisher) *AnnouncementHandler {
	return &AnnouncementHandler{DB: db, Pub: pub}
}

type announcementPayload struct {
	Title     string `json:"title" validate:"required,max=120"`
	Content   string `json:"content" validate:"required"`
	Priority  string `json:"priority" validate:"omitempty,oneof=low normal high"`
	IsActive  *bool  `json:"is_active"`
	PublishAt string `json:"publish_at" validate:"omitempty,datetime=2006-01-02"`
	ExpiresAt string `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
}

func (p *announcementPayload) apply(a *models.Announcement) {
	a.Title = strings.TrimSpace(p.Title)
	a.Content = strings.TrimSpace(p.Content)
	if p.Priority != "" {
		a.Priority = p.Priority
	} else if a.Priority == "" {
		a.Priority = "normal"
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	a.PublishAt = parseDatePtr(p.PublishAt)
	a.ExpiresAt = parseDatePtr(p.ExpiresAt)
}

func parseDatePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// GET /announcements?active=true
// active=true keeps only rows whose publish/expiry window covers now.
func (h *AnnouncementHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.Announcement{})
	if strings.EqualFold(c.QueryParam("active"), "true") {
		now := time.Now()
		tx = tx.Where("is_active = ?", true).
			Where("publish_at IS NULL OR publish_at <= ?", now).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}
	var rows []models.Announcement
	if err := tx.Order("priority = 'high' DESC, created_at DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AnnouncementHandler) Get(c echo.Context) error {
	var a models.Announcement
	if err := h.DB.First(&a, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) Create(c echo.Context) error {
	var p announcementPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	a := models.Announcement{IsActive: true}
	p.apply(&a)
	if err := h.DB.Create(&a).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.broadcast(events.KindAnnouncementCreated, a)
	return c.JSON(http.StatusCreated, a)
}

func (h *AnnouncementHandler) Update(c echo.Context) error {
	var a models.Announcement
	if err := h.DB.First(&a, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p announcementPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	p.apply(&a)
	if err := h.DB.Save(&a).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.broadcast(events.KindAnnouncementUpdated, a)
	return c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) Delete(c echo.Context) error {
	if err := h.DB.Delete(&models.Announcement{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AnnouncementHandler) broadcast(kind string, a models.Announcement) {
	if h.Pub == nil {
		return
	}
	h.Pub.Publish(events.New(kind, map[string]any{
		"announcement_id": a.ID,
		"title":           a.Title,
		"priority":        a.Priority,
		"is_active":       a.IsActive,
	}))
}
