package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// RenderCSV writes the report as an editable spreadsheet: one row per
// learner, one column per calendar day, totals at the right.
func RenderCSV(rep Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"lrn", "name", "gender"}
	for d := 1; d <= rep.DaysInMonth; d++ {
		header = append(header, fmt.Sprintf("%d", d))
	}
	header = append(header, "present", "absent", "late")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, group := range [][]StudentRow{rep.Male, rep.Female} {
		for _, r := range group {
			rec := []string{r.LRN, r.Name, r.Gender}
			rec = append(rec, r.Marks...)
			rec = append(rec, fmt.Sprintf("%d", r.Present), fmt.Sprintf("%d", r.Absent), fmt.Sprintf("%d", r.Late))
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}

	s := rep.Summary
	if err := w.Write([]string{
		"summary",
		fmt.Sprintf("enrolled_male=%d", s.EnrolledMale),
		fmt.Sprintf("enrolled_female=%d", s.EnrolledFemale),
		fmt.Sprintf("school_days=%d", s.SchoolDays),
		fmt.Sprintf("average_daily_attendance=%.2f", s.AverageDailyAttendance),
		fmt.Sprintf("percentage_attendance=%.2f", s.PercentageAttendance),
		fmt.Sprintf("percentage_enrolment=%.2f", s.PercentageEnrolment),
	}); err != nil {
		return nil, err
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
