package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type userRequest struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone"`
	Role            models.UserRole `json:"role" validate:"omitempty,oneof=teacher student"`
	Birthdate       string          `json:"birthdate" validate:"omitempty,len=5"`
	DefaultAmount   float64         `json:"default_amount"`
	DefaultCurrency string          `json:"default_currency"`
}

// ListUsers returns all users.
func (h *UserHandler) ListUsers(c echo.Context) error {
	var users []models.User
	if err := h.db.Order("name").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch users")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// GetUser returns one user by id.
func (h *UserHandler) GetUser(c echo.Context) error {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser stores a new user.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := models.User{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		Birthdate:       req.Birthdate,
		DefaultAmount:   req.DefaultAmount,
		DefaultCurrency: req.DefaultCurrency,
	}
	if user.Role == "" {
		user.Role = models.UserRoleStudent
	}

	if err := h.db.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user")
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser updates an existing user.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Birthdate = req.Birthdate
	user.DefaultAmount = req.DefaultAmount
	user.DefaultCurrency = req.DefaultCurrency

	if err := h.db.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.db.Delete(&models.User{}, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete user")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
