package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/models"
)

// PreferenceHandler manages per-user notification preferences for payment
// reminders.
type PreferenceHandler struct {
	db *gorm.DB
}

func NewPreferenceHandler(db *gorm.DB) *PreferenceHandler {
	return &PreferenceHandler{db: db}
}

type preferenceRequest struct {
	Channel            models.NotificationChannel `json:"channel" validate:"required,oneof=email whatsapp none"`
	WhatsappTargetType string                     `json:"whatsapp_target_type" validate:"omitempty,oneof=personal group"`
	WhatsappGroupID    string                     `json:"whatsapp_group_id"`
}

// GetPreference returns the notification preference of one user.
func (h *PreferenceHandler) GetPreference(c echo.Context) error {
	var pref models.UserNotifPreference
	err := h.db.Where("user_id = ?", c.Param("userId")).First(&pref).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "preference not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch preference")
	}
	return c.JSON(http.StatusOK, pref)
}

// SetPreference creates or updates the notification preference of one user.
func (h *PreferenceHandler) SetPreference(c echo.Context) error {
	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID := c.Param("userId")

	var pref models.UserNotifPreference
	err := h.db.Where("user_id = ?", userID).First(&pref).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch preference")
	}

	pref.UserID = userID
	pref.Channel = req.Channel
	pref.WhatsappTargetType = req.WhatsappTargetType
	if pref.WhatsappTargetType == "" {
		pref.WhatsappTargetType = models.WhatsappTargetTypePersonal
	}
	pref.WhatsappGroupID = req.WhatsappGroupID

	if err := h.db.Save(&pref).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save preference")
	}
	return c.JSON(http.StatusOK, pref)
}
