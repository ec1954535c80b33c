// Package reports builds DepEd School Form 2, the official monthly
// attendance register, from plain attendance rows.
package reports

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

// Day marks as they appear on the printed form.
const (
	MarkPresent = "✓"
	MarkAbsent  = "X"
	MarkLate    = "L"
	MarkNone    = "" // no record: school holiday, never counted absent
)

// StudentRow is one line of the register: a mark per calendar day plus
// monthly totals. Late days also count toward the present total.
type StudentRow struct {
	StudentID uint     `json:"student_id"`
	LRN       string   `json:"lrn"`
	Name      string   `json:"name"` // "Last, First"
	Gender    string   `json:"gender"`
	Marks     []string `json:"marks"` // index 0 = day 1
	Present   int      `json:"present"`
	Absent    int      `json:"absent"`
	Late      int      `json:"late"`
}

// Summary is the section-level footer of the form.
type Summary struct {
	EnrolledMale           int     `json:"enrolled_male"`
	EnrolledFemale         int     `json:"enrolled_female"`
	SchoolDays             int     `json:"school_days"`
	AverageDailyAttendance float64 `json:"average_daily_attendance"`
	PercentageAttendance   float64 `json:"percentage_attendance"`
	// Always 100: enrollment changes within the month are not tracked.
	PercentageEnrolment float64 `json:"percentage_enrolment"`
}

// Report is the full month: two independent tables split by gender.
type Report struct {
	SectionID    uint         `json:"section_id"`
	GradeLevelID uint         `json:"grade_level_id"`
	Month        time.Month   `json:"month"`
	Year         int          `json:"year"`
	DaysInMonth  int          `json:"days_in_month"`
	Male         []StudentRow `json:"male"`
	Female       []StudentRow `json:"female"`
	Summary      Summary      `json:"summary"`
}

// DaysIn returns the number of calendar days in the month.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Aggregate walks the month for every student and classifies each day.
// It is pure: callers load the rows, it does the arithmetic.
func Aggregate(students []models.Student, rows []models.Attendance, month time.Month, year int) Report {
	days := DaysIn(month, year)

	// (studentID, day) -> status
	byKey := make(map[uint]map[int]models.AttendanceStatus, len(students))
	for _, r := range rows {
		t, err := time.Parse("2006-01-02", r.Date)
		if err != nil || t.Month() != month || t.Year() != year {
			continue
		}
		m, ok := byKey[r.StudentID]
		if !ok {
			m = map[int]models.AttendanceStatus{}
			byKey[r.StudentID] = m
		}
		m[t.Day()] = r.Status
	}

	rep := Report{Month: month, Year: year, DaysInMonth: days}
	presentPerDay := make([]int, days+1)
	recordedDay := make([]bool, days+1)

	for _, st := range students {
		row := StudentRow{
			StudentID: st.ID,
			LRN:       st.LRN,
			Name:      fmt.Sprintf("%s, %s", st.LastName, st.FirstName),
			Gender:    st.Gender,
			Marks:     make([]string, days),
		}
		marks := byKey[st.ID]
		for d := 1; d <= days; d++ {
			status, ok := marks[d]
			if !ok {
				row.Marks[d-1] = MarkNone
				continue
			}
			recordedDay[d] = true
			switch status {
			case models.AttendanceAbsent:
				row.Marks[d-1] = MarkAbsent
				row.Absent++
			case models.AttendanceLate:
				row.Marks[d-1] = MarkLate
				row.Late++
				row.Present++
				presentPerDay[d]++
			default:
				row.Marks[d-1] = MarkPresent
				row.Present++
				presentPerDay[d]++
			}
		}
		if st.Gender == "female" {
			rep.Female = append(rep.Female, row)
		} else {
			rep.Male = append(rep.Male, row)
		}
	}

	sortRows(rep.Male)
	sortRows(rep.Female)

	sum := Summary{
		EnrolledMale:        len(rep.Male),
		EnrolledFemale:      len(rep.Female),
		PercentageEnrolment: 100,
	}
	totalPresent := 0
	for d := 1; d <= days; d++ {
		if recordedDay[d] {
			sum.SchoolDays++
			totalPresent += presentPerDay[d]
		}
	}
	if sum.SchoolDays > 0 {
		sum.AverageDailyAttendance = round2(float64(totalPresent) / float64(sum.SchoolDays))
	}
	if enrolled := sum.EnrolledMale + sum.EnrolledFemale; enrolled > 0 {
		sum.PercentageAttendance = round2(sum.AverageDailyAttendance / float64(enrolled) * 100)
	}
	rep.Summary = sum
	return rep
}

func sortRows(rows []StudentRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// Build loads the month's data for a section and aggregates it.
func Build(db *gorm.DB, sectionID, gradeLevelID uint, month time.Month, year int) (Report, error) {
	var students []models.Student
	if err := db.
		Where("section_id = ? AND grade_level_id = ? AND status = ?", sectionID, gradeLevelID, "active").
		Find(&students).Error; err != nil {
		return Report{}, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	last := time.Date(year, month, DaysIn(month, year), 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	ids := make([]uint, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	var rows []models.Attendance
	if len(ids) > 0 {
		if err := db.
			Where("student_id IN ? AND date >= ? AND date <= ?", ids, first, last).
			Find(&rows).Error; err != nil {
			return Report{}, err
		}
	}

	rep := Aggregate(students, rows, month, year)
	rep.SectionID = sectionID
	rep.GradeLevelID = gradeLevelID
	return rep, nil
}
