package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

type StudentHandler struct {
	DB *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler { return &StudentHandler{DB: db} }

type studentPayload struct {
	LRN          string `json:"lrn" validate:"required,max=12"`
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	BirthDate    string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	SectionID    uint   `json:"section_id" validate:"required"`
	GradeLevelID uint   `json:"grade_level_id" validate:"required"`
	Address      string `json:"address"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive"`
	GuardianIDs  []uint `json:"guardian_ids"`
}

func (p *studentPayload) normalize() {
	p.LRN = strings.TrimSpace(p.LRN)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	p.BirthDate = strings.TrimSpace(p.BirthDate)
	p.Address = strings.TrimSpace(p.Address)
	p.Status = strings.TrimSpace(p.Status)
	if p.Status == "" {
		p.Status = "active"
	}
}

func (h *StudentHandler) sectionExists(sectionID, gradeLevelID uint) bool {
	var cnt int64
	h.DB.Model(&models.Section{}).
		Where("id = ? AND grade_level_id = ?", sectionID, gradeLevelID).
		Count(&cnt)
	return cnt > 0
}

// GET /students?q=&section_id=&status=&page=&size=
func (h *StudentHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	page, size := pageParams(c)

	tx := h.DB.Model(&models.Student{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("lrn ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}
	if v := strings.TrimSpace(c.QueryParam("section_id")); v != "" {
		tx = tx.Where("section_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Student
	if err := tx.Preload("Guardians").Order("last_name ASC, first_name ASC").
		Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := h.DB.Preload("Guardians").First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	if !h.sectionExists(p.SectionID, p.GradeLevelID) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"section_id": "unknown section for that grade level"}})
	}

	s := models.Student{
		LRN: p.LRN, FirstName: p.FirstName, LastName: p.LastName,
		Gender: p.Gender, SectionID: p.SectionID, GradeLevelID: p.GradeLevelID,
		Address: p.Address, Status: p.Status,
	}
	if p.BirthDate != "" {
		if b, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
			s.BirthDate = &b
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		if len(p.GuardianIDs) > 0 {
			var gs []models.Guardian
			if err := tx.Find(&gs, p.GuardianIDs).Error; err != nil {
				return err
			}
			if len(gs) != len(p.GuardianIDs) {
				return fmt.Errorf("unknown guardian id")
			}
			return tx.Model(&s).Association("Guardians").Replace(gs)
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *StudentHandler) Update(c echo.Context) error {
	var existing models.Student
	if err := h.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}
	if !h.sectionExists(p.SectionID, p.GradeLevelID) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"section_id": "unknown section for that grade level"}})
	}

	existing.LRN = p.LRN
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Gender = p.Gender
	existing.SectionID = p.SectionID
	existing.GradeLevelID = p.GradeLevelID
	existing.Address = p.Address
	existing.Status = p.Status
	if p.BirthDate != "" {
		if b, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
			existing.BirthDate = &b
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		if p.GuardianIDs != nil {
			var gs []models.Guardian
			if len(p.GuardianIDs) > 0 {
				if err := tx.Find(&gs, p.GuardianIDs).Error; err != nil {
					return err
				}
			}
			return tx.Model(&existing).Association("Guardians").Replace(gs)
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// Delete soft-deletes the student, detaching guardians and dropping the
// photo reference in the same transaction.
func (h *StudentHandler) Delete(c echo.Context) error {
	var s models.Student
	if err := h.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&s).Association("Guardians").Clear(); err != nil {
			return err
		}
		if s.PhotoPath != "" {
			if err := tx.Model(&s).Update("photo_path", "").Error; err != nil {
				return err
			}
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

type registerCardReq struct {
	CardUID string `json:"card_id"`
}

// PUT /students/:id/card
// Assigns the NFC tag. An empty card_id issues a fresh token, for
// schools printing QR fallback cards instead of buying tags.
func (h *StudentHandler) RegisterCard(c echo.Context) error {
	var s models.Student
	if err := h.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var req registerCardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	uid := strings.TrimSpace(req.CardUID)
	if uid == "" {
		uid = uuid.NewString()
	}

	var dup models.Student
	if err := h.DB.Where("card_uid = ? AND id <> ?", uid, s.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "CARD_ALREADY_REGISTERED", "student_id": dup.ID})
	}

	s.CardUID = &uid
	if err := h.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": s.ID, "card_id": uid})
}

/* ---------------- CSV import / export ---------------- */

var studentCSVHeader = []string{"name", "lrn", "date_of_birth", "gender", "section_id", "grade_level_id", "guardian_emails", "card_id"}

type studentCSVRow struct {
	FirstName      string
	LastName       string
	LRN            string
	BirthDate      string
	Gender         string
	SectionID      uint
	GradeLevelID   uint
	GuardianEmails []string
	CardUID        string
}

// splitName accepts "Last, First" and falls back to "First ... Last".
func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[i+1:]), strings.TrimSpace(name[:i])
	}
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name, ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// parseStudentRow turns one CSV record into a row, using the header
// positions. Validation failures name the offending column.
func parseStudentRow(cols map[string]int, rec []string) (studentCSVRow, error) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var row studentCSVRow
	row.FirstName, row.LastName = splitName(get("name"))
	if row.FirstName == "" || row.LastName == "" {
		return row, fmt.Errorf("name: need both first and last name")
	}
	row.LRN = get("lrn")
	if row.LRN == "" || len(row.LRN) > 12 {
		return row, fmt.Errorf("lrn: required, max 12 chars")
	}
	row.Gender = strings.ToLower(get("gender"))
	if row.Gender != "male" && row.Gender != "female" {
		return row, fmt.Errorf("gender: must be male or female")
	}
	row.BirthDate = get("date_of_birth")
	if row.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", row.BirthDate); err != nil {
			return row, fmt.Errorf("date_of_birth: must be YYYY-MM-DD")
		}
	}
	sid, err := strconv.Atoi(get("section_id"))
	if err != nil || sid <= 0 {
		return row, fmt.Errorf("section_id: must be a positive integer")
	}
	row.SectionID = uint(sid)
	gid, err := strconv.Atoi(get("grade_level_id"))
	if err != nil || gid <= 0 {
		return row, fmt.Errorf("grade_level_id: must be a positive integer")
	}
	row.GradeLevelID = uint(gid)
	for _, e := range strings.Split(get("guardian_emails"), "|") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			row.GuardianEmails = append(row.GuardianEmails, e)
		}
	}
	row.CardUID = get("card_id")
	return row, nil
}

type importRowError struct {
	Row     int    `json:"row"` // 1-based data row number
	Message string `json:"message"`
}

// POST /students/import  (body: text/csv)
// Each row commits in its own transaction, so one bad row never rolls
// back its neighbours; failures come back in the errors list.
func (h *StudentHandler) ImportCSV(c echo.Context) error {
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
	for _, required := range []string{"name", "lrn", "gender", "section_id", "grade_level_id"} {
		if _, ok := cols[required]; !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_COLUMN", "column": required})
		}
	}

	var created, updated int
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
		row, err := parseStudentRow(cols, rec)
		if err != nil {
			rowErrs = append(rowErrs, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		wasUpdate, err := h.importRow(row)
		if err != nil {
			rowErrs = append(rowErrs, importRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if wasUpdate {
			updated++
		} else {
			created++
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"created": created,
		"updated": updated,
		"errors":  rowErrs,
	})
}

func (h *StudentHandler) importRow(row studentCSVRow) (updated bool, err error) {
	if !h.sectionExists(row.SectionID, row.GradeLevelID) {
		return false, fmt.Errorf("section_id: unknown section %d for grade level %d", row.SectionID, row.GradeLevelID)
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var s models.Student
		findErr := tx.Where("lrn = ?", row.LRN).First(&s).Error
		switch {
		case findErr == nil:
			updated = true
		case findErr == gorm.ErrRecordNotFound:
			s = models.Student{Status: "active"}
		default:
			return findErr
		}

		s.LRN = row.LRN
		s.FirstName = row.FirstName
		s.LastName = row.LastName
		s.Gender = row.Gender
		s.SectionID = row.SectionID
		s.GradeLevelID = row.GradeLevelID
		if row.BirthDate != "" {
			if b, perr := time.Parse("2006-01-02", row.BirthDate); perr == nil {
				s.BirthDate = &b
			}
		}
		if row.CardUID != "" {
			var dup models.Student
			if tx.Where("card_uid = ? AND lrn <> ?", row.CardUID, row.LRN).First(&dup).Error == nil {
				return fmt.Errorf("card_id: already registered to another student")
			}
			uid := row.CardUID
			s.CardUID = &uid
		}
		if err := tx.Save(&s).Error; err != nil {
			return err
		}

		if len(row.GuardianEmails) > 0 {
			var gs []models.Guardian
			if err := tx.Joins("JOIN users u ON u.id = guardians.user_id").
				Where("u.email IN ?", row.GuardianEmails).
				Find(&gs).Error; err != nil {
				return err
			}
			if len(gs) != len(row.GuardianEmails) {
				return fmt.Errorf("guardian_emails: unknown guardian email")
			}
			return tx.Model(&s).Association("Guardians").Replace(gs)
		}
		return nil
	})
	return updated, err
}

// GET /students/export
func (h *StudentHandler) ExportCSV(c echo.Context) error {
	var students []models.Student
	tx := h.DB.Order("last_name ASC, first_name ASC")
	if v := strings.TrimSpace(c.QueryParam("section_id")); v != "" {
		tx = tx.Where("section_id = ?", v)
	}
	if err := tx.Preload("Guardians").Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="students.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(studentCSVHeader); err != nil {
		return err
	}
	for _, s := range students {
		birth := ""
		if s.BirthDate != nil {
			birth = s.BirthDate.Format("2006-01-02")
		}
		card := ""
		if s.CardUID != nil {
			card = *s.CardUID
		}
		emails := make([]string, 0, len(s.Guardians))
		for _, g := range s.Guardians {
			var u models.User
			if h.DB.First(&u, "id = ?", g.UserID).Error == nil {
				emails = append(emails, u.Email)
			}
		}
		if err := w.Write([]string{
			s.LastName + ", " + s.FirstName,
			s.LRN,
			birth,
			s.Gender,
			strconv.FormatUint(uint64(s.SectionID), 10),
			strconv.FormatUint(uint64(s.GradeLevelID), 10),
			strings.Join(emails, "|"),
			card,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
