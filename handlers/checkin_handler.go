package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kyllercodes02/academy-sub000/services"
)

// CheckinHandler serves the NFC reader terminal at the school gate.
type CheckinHandler struct {
	Svc *services.AttendanceService
}

func NewCheckinHandler(svc *services.AttendanceService) *CheckinHandler {
	return &CheckinHandler{Svc: svc}
}

type tapReq struct {
	CardUID string `json:"card_uid" validate:"required"`
}

// POST /checkin/tap
// First tap of the day checks the student in (late past the cutoff),
// the second checks them out, a third is a conflict.
func (h *CheckinHandler) Tap(c echo.Context) error {
	var req tapReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	action, rec, student, err := h.Svc.Tap(strings.TrimSpace(req.CardUID))
	switch {
	case errors.Is(err, services.ErrUnknownCard):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CARD_NOT_REGISTERED"})
	case errors.Is(err, services.ErrAlreadyCheckedOut):
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_CHECKED_OUT"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "WRITE_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"action": action,
		"student": map[string]any{
			"id":   student.ID,
			"name": student.FirstName + " " + student.LastName,
		},
		"attendance": rec,
	})
}
