package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/kyllercodes02/academy-sub000/models"
)

// pdfMark maps register marks to the core-font charset; the check mark
// is not representable in cp1252, so present prints as a slash.
func pdfMark(m string) string {
	if m == MarkPresent {
		return "/"
	}
	return m
}

// RenderPDF lays the report out landscape on A4, one table per gender.
func RenderPDF(rep Report, school models.School, sectionName string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 8)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 6, "School Form 2 (SF2) - Daily Attendance Report of Learners", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("School: %s (%s)   Region: %s   Division: %s", school.Name, school.SchoolID, school.Region, school.Division), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Section: %s   Month: %s %d   School Year: %s", sectionName, rep.Month, rep.Year, school.SchoolYear), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writeTable(pdf, "MALE", rep.Male, rep.DaysInMonth)
	pdf.Ln(3)
	writeTable(pdf, "FEMALE", rep.Female, rep.DaysInMonth)

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 8)
	s := rep.Summary
	pdf.CellFormat(0, 4, fmt.Sprintf("Enrolled: M %d / F %d   School days: %d   Average daily attendance: %.2f   Percentage of attendance: %.2f%%   Percentage of enrolment: %.2f%%",
		s.EnrolledMale, s.EnrolledFemale, s.SchoolDays, s.AverageDailyAttendance, s.PercentageAttendance, s.PercentageEnrolment), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *gofpdf.Fpdf, label string, rows []StudentRow, days int) {
	const nameW, dayW, totW = 50.0, 5.5, 10.0

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(0, 4, label, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 6)
	pdf.CellFormat(nameW, 5, "Learner's Name", "1", 0, "L", false, 0, "")
	for d := 1; d <= days; d++ {
		pdf.CellFormat(dayW, 5, fmt.Sprintf("%d", d), "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(totW, 5, "P", "1", 0, "C", false, 0, "")
	pdf.CellFormat(totW, 5, "A", "1", 0, "C", false, 0, "")
	pdf.CellFormat(totW, 5, "L", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 6)
	for _, r := range rows {
		pdf.CellFormat(nameW, 5, r.Name, "1", 0, "L", false, 0, "")
		for _, m := range r.Marks {
			pdf.CellFormat(dayW, 5, pdfMark(m), "1", 0, "C", false, 0, "")
		}
		pdf.CellFormat(totW, 5, fmt.Sprintf("%d", r.Present), "1", 0, "C", false, 0, "")
		pdf.CellFormat(totW, 5, fmt.Sprintf("%d", r.Absent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(totW, 5, fmt.Sprintf("%d", r.Late), "1", 1, "C", false, 0, "")
	}
}
