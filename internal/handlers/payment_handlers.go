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

// PaymentHandler serves payment recording, deletion, listing and the
// reconciled due view of a day.
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

type recordPaymentRequest struct {
	UserEmail      string       `json:"user_email" validate:"required,email"`
	ClassSessionID string       `json:"class_session_id" validate:"required"`
	DueDate        schedule.Day `json:"due_date" validate:"required"`
	Amount         float64      `json:"amount"`
	Currency       string       `json:"currency"`
}

// GetDueForDay returns the reconciled obligations of one day. The viewed
// month defaults to the day's own month when not supplied.
func (h *PaymentHandler) GetDueForDay(c echo.Context) error {
	day, err := dayFromQuery(c, "date")
	if err != nil {
		return err
	}

	viewed := day.MonthKey()
	if c.QueryParam("month") != "" {
		if m, err := monthFromQuery(c); err == nil {
			viewed = m
		}
	}

	statuses, err := h.payments.DueStatusesForDay(c.Request().Context(), teacherIDFromRequest(c), day, viewed)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute due payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"date": day, "due": statuses})
}

// ListPayments returns payments in a date range, optionally filtered by
// student or class, paginated.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	from, err := dayFromQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := dayFromQuery(c, "to")
	if err != nil {
		return err
	}
	if to.Before(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}

	pagination := parsePagination(c, 20)

	query := h.db.Model(&models.Payment{}).
		Where("due_date >= ? AND due_date < ?", from.Time(), to.AddDays(1).Time())
	if userEmail := c.QueryParam("user"); userEmail != "" {
		query = query.Where("user_id = ?", userEmail)
	}
	if classID := c.QueryParam("class"); classID != "" {
		query = query.Where("class_session_id = ?", schedule.BaseID(classID))
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count payments")
	}
	limit, offset := pagination.resolve(totalCount)

	sortOrder := "desc"
	if c.QueryParam("sort_order") == "asc" {
		sortOrder = "asc"
	}

	var payments []models.Payment
	if err := query.Order("due_date " + sortOrder).Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments":   payments,
		"pagination": pagination,
	})
}

// RecordPayment marks an obligation paid. Recording the same obligation
// twice returns the first record with a 200 instead of creating a duplicate.
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, created, err := h.payments.RecordPayment(c.Request().Context(), services.RecordPaymentInput{
		UserEmail:      req.UserEmail,
		ClassSessionID: req.ClassSessionID,
		DueDate:        req.DueDate,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Gateway:        models.PaymentGatewayManual,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record payment")
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, payment)
}

// DeletePayment removes a payment record, returning the obligation to
// unpaid.
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	if err := h.payments.DeletePayment(c.Request().Context(), c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete payment")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// InitiatePayment starts an online checkout for one obligation.
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var student models.User
	if err := h.db.First(&student, "email = ?", req.UserEmail).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}

	var class models.ClassSession
	className := req.ClassSessionID
	if err := h.db.First(&class, "id = ?", schedule.BaseID(req.ClassSessionID)).Error; err == nil {
		className = class.Title
		if req.Amount == 0 {
			req.Amount = class.PaymentAmount
		}
		if req.Currency == "" {
			req.Currency = class.PaymentCurrency
		}
	}

	// Students may only pay their own dues.
	if email := middleware.UserEmail(c); email != "" && email != req.UserEmail {
		var caller models.User
		if err := h.db.First(&caller, "email = ?", email).Error; err != nil || caller.Role != models.UserRoleTeacher {
			return echo.NewHTTPError(http.StatusForbidden, "you can only pay for your own dues")
		}
	}

	result, err := h.payments.InitiateOnlinePayment(c.Request().Context(), services.RecordPaymentInput{
		UserEmail:      req.UserEmail,
		ClassSessionID: req.ClassSessionID,
		DueDate:        req.DueDate,
		Amount:         req.Amount,
		Currency:       req.Currency,
	}, &student, className, c.QueryParam("callback"), c.QueryParam("force_new") == "true")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to initiate payment: "+err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// GatewayCallback handles midtrans payment notifications.
func (h *PaymentHandler) GatewayCallback(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	if err := h.payments.HandleGatewayNotification(c.Request().Context(), payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
