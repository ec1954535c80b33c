package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kyllercodes02/academy-sub000/models"
)

// AccountHandler lets admins manage staff login accounts.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler { return &AccountHandler{DB: db} }

// GET /admin/accounts?role=teacher
func (h *AccountHandler) List(c echo.Context) error {
	tx := h.DB.Model(&models.User{})
	if v := strings.TrimSpace(c.QueryParam("role")); v != "" {
		tx = tx.Where("role = ?", v)
	} else {
		tx = tx.Where("role IN ?", []string{"admin", "teacher"})
	}
	var users []models.User
	if err := tx.Order("username ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, users)
}

type createAccountReq struct {
	TeacherID uint   `json:"teacher_id" validate:"required"`
	Username  string `json:"username" validate:"required,min=4,max=60"`
	Password  string `json:"password" validate:"required,min=8"`
}

// POST /admin/accounts
// Creates a teacher login bound to an existing teacher record.
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	var t models.Teacher
	if err := h.DB.First(&t, "id = ?", req.TeacherID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "TEACHER_NOT_FOUND"})
	}

	username := strings.TrimSpace(req.Username)
	var dup models.User
	if err := h.DB.Where("username = ?", username).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "USERNAME_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}
	u := models.User{
		Username: username,
		Email:    t.Email,
		Password: string(hash),
		Role:     "teacher",
		Name:     strings.TrimSpace(t.FirstName + " " + t.LastName),
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, u)
}

// POST /admin/accounts/:id/reset
// Returns a generated one-time password; the hash replaces the old one.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var u models.User
	if err := h.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	oneTime := uuid.NewString()[:8]
	hash, err := bcrypt.GenerateFromPassword([]byte(oneTime), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}
	if err := h.DB.Model(&u).Update("password", string(hash)).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": u.ID, "one_time_password": oneTime})
}
