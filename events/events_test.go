package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	ev := New(KindAttendanceUpdated, map[string]any{"student_id": 7})

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, KindAttendanceUpdated, ev.Kind)
	assert.False(t, ev.At.Before(before))
	assert.Equal(t, 7, ev.Payload["student_id"])

	ev2 := New(KindAttendanceUpdated, nil)
	assert.NotEqual(t, ev.ID, ev2.ID)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := NewHub() // Run never started: nothing drains the queue

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(New(KindScheduleCreated, nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestHubPublishAfterClose(t *testing.T) {
	h := NewHub()
	h.Close()
	h.Publish(New(KindScheduleCreated, nil)) // dropped, no panic
	h.Close()                                // idempotent
}

func TestDiscardPublish(t *testing.T) {
	var p Publisher = Discard{}
	// must be a no-op
	p.Publish(New(KindAnnouncementCreated, map[string]any{"id": 1}))
}
