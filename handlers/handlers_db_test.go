package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyllercodes02/academy-sub000/events"
	"github.com/kyllercodes02/academy-sub000/models"
	"github.com/kyllercodes02/academy-sub000/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.GradeLevel{}, &models.Section{}, &models.Student{},
		&models.Guardian{}, &models.AuthorizedPerson{},
		&models.Attendance{}, &models.Schedule{}, &models.Announcement{},
		&models.User{},
	))
	return db
}

func newCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthorizedPersonPrimaryFlip(t *testing.T) {
	db := openTestDB(t)
	st := models.Student{
		LRN: "1001", FirstName: "Juan", LastName: "Cruz", Gender: "male",
		SectionID: 1, GradeLevelID: 1, Status: "active",
	}
	require.NoError(t, db.Create(&st).Error)
	h := NewAuthorizedPersonHandler(db)

	create := func(name string, primary bool) {
		c, rec := newCtx(http.MethodPost, "/", fmt.Sprintf(`{"name":%q,"is_primary":%v}`, name, primary))
		c.SetParamNames("studentId")
		c.SetParamValues(fmt.Sprint(st.ID))
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	create("Lola Remedios", true)
	create("Tito Ben", true)

	var primaries []models.AuthorizedPerson
	db.Where("student_id = ? AND is_primary = ?", st.ID, true).Find(&primaries)
	require.Len(t, primaries, 1, "at most one primary per student")
	assert.Equal(t, "Tito Ben", primaries[0].Name)

	// flipping the other back via update moves the flag, never duplicates it
	var other models.AuthorizedPerson
	require.NoError(t, db.Where("name = ?", "Lola Remedios").First(&other).Error)
	c, rec := newCtx(http.MethodPut, "/", `{"name":"Lola Remedios","is_primary":true}`)
	c.SetParamNames("studentId", "id")
	c.SetParamValues(fmt.Sprint(st.ID), fmt.Sprint(other.ID))
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	db.Where("student_id = ? AND is_primary = ?", st.ID, true).Find(&primaries)
	require.Len(t, primaries, 1)
	assert.Equal(t, "Lola Remedios", primaries[0].Name)
}

func TestStudentImportRowIsolation(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.GradeLevel{Name: "Grade 7"}).Error)
	require.NoError(t, db.Create(&models.Section{Name: "Sampaguita", GradeLevelID: 1}).Error)
	h := NewStudentHandler(db)

	body := strings.Join([]string{
		"name,lrn,date_of_birth,gender,section_id,grade_level_id,guardian_emails,card_id",
		`"Cruz, Juan",1001,,male,1,1,,`,
		"Madonna,1002,,female,1,1,,", // single name, fails row validation
		`"Reyes, Maria",1003,,female,1,1,,`,
	}, "\n")

	c, rec := newCtx(http.MethodPost, "/students/import", body)
	require.NoError(t, h.ImportCSV(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Created int              `json:"created"`
		Updated int              `json:"updated"`
		Errors  []importRowError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 0, out.Updated)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, 2, out.Errors[0].Row)

	// the bad row rolled back alone; its neighbours committed
	var cnt int64
	db.Model(&models.Student{}).Count(&cnt)
	assert.Equal(t, int64(2), cnt)
}

func TestScheduleUpdateKeepsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	h := NewScheduleHandler(db, services.NewScheduleService(db, events.Discard{}))

	t0 := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	row := models.Schedule{
		SectionID: 1, Day: "Monday", StartTime: "08:00", EndTime: "09:00",
		Subject: "Math", CreatedAt: t0,
	}
	require.NoError(t, db.Create(&row).Error)

	c, rec := newCtx(http.MethodPut, "/",
		`{"section_id":1,"day":"Monday","start_time":"09:00","end_time":"10:00","subject":"Math"}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(row.ID))
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Schedule
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, t0.Unix(), got.CreatedAt.Unix(), "edits keep the original created_at")
}

type capturePublisher struct {
	kinds []string
}

func (p *capturePublisher) Publish(ev events.Event) { p.kinds = append(p.kinds, ev.Kind) }

func TestAnnouncementBroadcastKinds(t *testing.T) {
	db := openTestDB(t)
	pub := &capturePublisher{}
	h := NewAnnouncementHandler(db, pub)

	c, rec := newCtx(http.MethodPost, "/", `{"title":"Brigada Eskwela","content":"Saturday 7am"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var a models.Announcement
	require.NoError(t, db.First(&a).Error)

	c, rec = newCtx(http.MethodPut, "/", `{"title":"Brigada Eskwela","content":"moved to 8am"}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(a.ID))
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{events.KindAnnouncementCreated, events.KindAnnouncementUpdated}, pub.kinds)
}
