package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/middleware"
	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
	"tutordesk/internal/services"
)

// ClassHandler manages class sessions. A class taught on several weekdays is
// persisted as one row per slot, all sharing a base id; the API works in
// terms of the base id.
type ClassHandler struct {
	db       *gorm.DB
	calendar *services.CalendarService
}

func NewClassHandler(db *gorm.DB, calendar *services.CalendarService) *ClassHandler {
	return &ClassHandler{db: db, calendar: calendar}
}

type classSlotRequest struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required"`
	DurationMin int    `json:"duration_min"`
}

type classRequest struct {
	Title            string                 `json:"title" validate:"required"`
	Slots            []classSlotRequest     `json:"slots" validate:"required,min=1,dive"`
	StartDate        schedule.Day           `json:"start_date"`
	EndDate          *schedule.Day          `json:"end_date"`
	PaymentType      schedule.PaymentType   `json:"payment_type" validate:"omitempty,oneof=weekly monthly"`
	WeeklyInterval   int                    `json:"weekly_interval"`
	MonthlyOption    schedule.MonthlyOption `json:"monthly_option" validate:"omitempty,oneof=first fifteen last"`
	PaymentAmount    float64                `json:"payment_amount"`
	PaymentCurrency  string                 `json:"payment_currency"`
	PaymentStartDate schedule.Day           `json:"payment_start_date"`
	StudentEmails    []string               `json:"student_emails" validate:"omitempty,dive,email"`
}

func (r classRequest) rows(teacherID, baseID string) []models.ClassSession {
	rows := make([]models.ClassSession, 0, len(r.Slots))
	for i, slot := range r.Slots {
		row := models.ClassSession{
			ID:               schedule.ScheduleKey{BaseID: baseID, Slot: i}.String(),
			Title:            r.Title,
			TeacherID:        teacherID,
			DayOfWeek:        slot.DayOfWeek,
			StartTime:        slot.StartTime,
			DurationMin:      slot.DurationMin,
			StartDate:        r.StartDate.Time(),
			PaymentType:      r.PaymentType,
			WeeklyInterval:   r.WeeklyInterval,
			MonthlyOption:    r.MonthlyOption,
			PaymentAmount:    r.PaymentAmount,
			PaymentCurrency:  r.PaymentCurrency,
			PaymentStartDate: r.PaymentStartDate.Time(),
			StudentEmails:    r.StudentEmails,
		}
		if row.DurationMin == 0 {
			row.DurationMin = 60
		}
		if r.EndDate != nil {
			end := r.EndDate.Time()
			row.EndDate = &end
		}
		rows = append(rows, row)
	}
	return rows
}

// ListClasses returns the caller's classes, paginated.
func (h *ClassHandler) ListClasses(c echo.Context) error {
	pagination := parsePagination(c, 20)

	query := h.db.Model(&models.ClassSession{}).Where("teacher_id = ?", middleware.UserUID(c))

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count classes")
	}
	limit, offset := pagination.resolve(totalCount)

	var classes []models.ClassSession
	if err := query.Order("id").Limit(limit).Offset(offset).Find(&classes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch classes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"classes":    classes,
		"pagination": pagination,
	})
}

// GetClass returns all slot rows of one class by base id.
func (h *ClassHandler) GetClass(c echo.Context) error {
	rows, err := h.classRows(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"classes": rows})
}

// CreateClass persists one row per requested slot under a fresh base id.
func (h *ClassHandler) CreateClass(c echo.Context) error {
	var req classRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	baseID := models.NewBaseID()
	rows := req.rows(middleware.UserUID(c), baseID)
	if err := h.db.Create(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create class")
	}

	h.calendar.Invalidate(c.Request().Context(), middleware.UserUID(c))
	return c.JSON(http.StatusCreated, map[string]interface{}{"id": baseID, "classes": rows})
}

// UpdateClass replaces the slot rows of a class, keeping its base id so the
// payment history stays attached.
func (h *ClassHandler) UpdateClass(c echo.Context) error {
	baseID := schedule.BaseID(c.Param("id"))

	existing, err := h.classRows(baseID)
	if err != nil {
		return err
	}

	var req classRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	teacherID := existing[0].TeacherID
	if teacherID != middleware.UserUID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only edit your own classes")
	}

	rows := req.rows(teacherID, baseID)
	if err := h.replaceRows(baseID, rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update class")
	}

	h.calendar.Invalidate(c.Request().Context(), teacherID)
	return c.JSON(http.StatusOK, map[string]interface{}{"id": baseID, "classes": rows})
}

// DeleteClass removes all slot rows of a class.
func (h *ClassHandler) DeleteClass(c echo.Context) error {
	baseID := schedule.BaseID(c.Param("id"))

	existing, err := h.classRows(baseID)
	if err != nil {
		return err
	}
	if existing[0].TeacherID != middleware.UserUID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only delete your own classes")
	}

	if err := h.deleteRows(baseID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete class")
	}

	h.calendar.Invalidate(c.Request().Context(), existing[0].TeacherID)
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ClassHandler) classRows(id string) ([]models.ClassSession, error) {
	baseID := schedule.BaseID(id)
	var rows []models.ClassSession
	err := h.db.
		Where("id = ? OR id LIKE ?", baseID, baseID+"-%").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch class")
	}
	if len(rows) == 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound, "class not found")
	}
	return rows, nil
}

func (h *ClassHandler) deleteRows(baseID string) error {
	return h.db.
		Where("id = ? OR id LIKE ?", baseID, baseID+"-%").
		Delete(&models.ClassSession{}).Error
}

// replaceRows swaps the slot rows of a class for a new set in one
// transaction. The replacements reuse the same ids, so the old rows must be
// removed for real; a soft delete would keep holding the primary keys.
func (h *ClassHandler) replaceRows(baseID string, rows []models.ClassSession) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().
			Where("id = ? OR id LIKE ?", baseID, baseID+"-%").
			Delete(&models.ClassSession{}).Error
		if err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
}
