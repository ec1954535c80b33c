package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/models"
)

var ErrScheduleConflict = errors.New("schedule overlaps an existing one")

// Overlaps is the half-open interval test: [s1,e1) and [s2,e2) conflict
// iff s1 < e2 && s2 < e1. Touching endpoints do not conflict. Times are
// zero-padded "HH:MM" so string order is chronological order.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// ValidateTimeRange rejects malformed times and ranges where end is not
// after start. This runs at the input layer, before any conflict check.
func ValidateTimeRange(start, end string) error {
	for _, v := range []string{start, end} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("time %q is not HH:MM", v)
		}
	}
	if end <= start {
		return errors.New("end_time must be after start_time")
	}
	return nil
}

// ScheduleService guards the no-overlap invariant per section+day.
type ScheduleService struct {
	DB  *gorm.DB
	Pub events.Publisher
}

func NewScheduleService(db *gorm.DB, pub events.Publisher) *ScheduleService {
	return &ScheduleService{DB: db, Pub: pub}
}

// HasConflict scans the section+day rows, skipping the row being edited
// when excludeID is non-zero, and reports the first overlap.
func (s *ScheduleService) HasConflict(sectionID uint, day, start, end string, excludeID uint) (bool, error) {
	q := s.DB.Where("section_id = ? AND day = ?", sectionID, day)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []models.Schedule
	if err := q.Find(&rows).Error; err != nil {
		return false, err
	}
	for _, r := range rows {
		if Overlaps(start, end, r.StartTime, r.EndTime) {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts one row after checking for conflicts.
func (s *ScheduleService) Create(row models.Schedule) (models.Schedule, error) {
	conflict, err := s.HasConflict(row.SectionID, row.Day, row.StartTime, row.EndTime, 0)
	if err != nil {
		return models.Schedule{}, err
	}
	if conflict {
		return models.Schedule{}, ErrScheduleConflict
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return models.Schedule{}, err
	}
	s.publish(events.KindScheduleCreated, row)
	return row, nil
}

// Update replaces a row, excluding it from its own conflict check.
func (s *ScheduleService) Update(row models.Schedule) (models.Schedule, error) {
	conflict, err := s.HasConflict(row.SectionID, row.Day, row.StartTime, row.EndTime, row.ID)
	if err != nil {
		return models.Schedule{}, err
	}
	if conflict {
		return models.Schedule{}, ErrScheduleConflict
	}
	if err := s.DB.Save(&row).Error; err != nil {
		return models.Schedule{}, err
	}
	s.publish(events.KindScheduleUpdated, row)
	return row, nil
}

// BulkCreate inserts a batch atomically: every candidate is checked
// against existing rows and against the candidates before it, and the
// whole batch aborts on the first conflict.
func (s *ScheduleService) BulkCreate(rows []models.Schedule) ([]models.Schedule, error) {
	for i := range rows {
		conflict, err := s.HasConflict(rows[i].SectionID, rows[i].Day, rows[i].StartTime, rows[i].EndTime, 0)
		if err != nil {
			return nil, err
		}
		if !conflict {
			conflict = conflictWithin(rows[:i], rows[i])
		}
		if conflict {
			return nil, fmt.Errorf("row %d: %w", i, ErrScheduleConflict)
		}
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		s.publish(events.KindScheduleCreated, r)
	}
	return rows, nil
}

func conflictWithin(earlier []models.Schedule, cand models.Schedule) bool {
	for _, r := range earlier {
		if r.SectionID == cand.SectionID && r.Day == cand.Day &&
			Overlaps(cand.StartTime, cand.EndTime, r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}

func (s *ScheduleService) publish(kind string, row models.Schedule) {
	if s.Pub == nil {
		return
	}
	s.Pub.Publish(events.New(kind, map[string]any{
		"schedule_id": row.ID,
		"section_id":  row.SectionID,
		"day":         row.Day,
		"start_time":  row.StartTime,
		"end_time":    row.EndTime,
		"subject":     row.Subject,
	}))
}
