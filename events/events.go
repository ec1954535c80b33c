package events

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds pushed to connected clients.
const (
	KindAnnouncementCreated = "announcement.created"
	KindAnnouncementUpdated = "announcement.updated"
	KindAttendanceUpdated   = "attendance.updated"
	KindScheduleCreated     = "schedule.created"
	KindScheduleUpdated     = "schedule.updated"
)

// Event is a flat payload of primitive fields. Delivery is
// fire-and-forget, at most once, no retry.
type Event struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload"`
}

func New(kind string, payload map[string]any) Event {
	return Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		At:      time.Now(),
		Payload: payload,
	}
}

// Publisher is the broadcast boundary. Publish must not block the
// request and must return immediately even when nobody is listening.
type Publisher interface {
	Publish(Event)
}

// Discard swallows every event. Used in tests and when the websocket
// hub is disabled.
type Discard struct{}

func (Discard) Publish(Event) {}
