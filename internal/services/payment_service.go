package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

// PaymentService owns payment recording, deletion, reconciliation and the
// online-payment flow. All writes are single document operations; there is
// no multi-step transaction to roll back.
type PaymentService struct {
	db       *gorm.DB
	calendar *CalendarService
	midtrans *MidtransService
}

func NewPaymentService(db *gorm.DB, calendar *CalendarService, midtrans *MidtransService) *PaymentService {
	return &PaymentService{db: db, calendar: calendar, midtrans: midtrans}
}

// RecordPaymentInput describes one obligation being marked paid.
type RecordPaymentInput struct {
	UserEmail      string
	ClassSessionID string
	DueDate        schedule.Day
	Amount         float64
	Currency       string
	Gateway        models.PaymentGateway
}

// MatchExistingPayment finds a recorded payment among candidates covering
// the same obligation: same class (by exact id or base id, so slot variants
// collapse) and a due date on the same calendar day. Candidates are assumed
// pre-filtered by user.
func MatchExistingPayment(candidates []models.Payment, classSessionID string, day schedule.Day) *models.Payment {
	base := schedule.BaseID(classSessionID)
	for i := range candidates {
		p := &candidates[i]
		if p.ClassSessionID != classSessionID && schedule.BaseID(p.ClassSessionID) != base {
			continue
		}
		if !schedule.DayOf(p.DueDate).Equal(day) {
			continue
		}
		return p
	}
	return nil
}

// RecordPayment marks an obligation paid. Recording is idempotent: when a
// payment already exists for the (user, base class, due day) tuple the
// existing record is returned and nothing is written. The second return
// value reports whether a new record was created.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, bool, error) {
	if input.UserEmail == "" || input.ClassSessionID == "" || input.DueDate.IsZero() {
		return nil, false, fmt.Errorf("user, class and due date are required")
	}

	dayStart := input.DueDate.Time()
	dayEnd := input.DueDate.AddDays(1).Time()

	var candidates []models.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", input.UserEmail).
		Where("due_date >= ? AND due_date < ?", dayStart, dayEnd).
		Find(&candidates).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing payments: %w", err)
	}

	if existing := MatchExistingPayment(candidates, input.ClassSessionID, input.DueDate); existing != nil {
		return existing, false, nil
	}

	gateway := input.Gateway
	if gateway == "" {
		gateway = models.PaymentGatewayManual
	}

	payment := models.Payment{
		ID:             uuid.New().String(),
		UserID:         input.UserEmail,
		ClassSessionID: schedule.BaseID(input.ClassSessionID),
		DueDate:        dayStart,
		CompletedAt:    time.Now(),
		Amount:         input.Amount,
		Currency:       input.Currency,
		Gateway:        gateway,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create payment: %w", err)
	}
	return &payment, true, nil
}

// DeletePayment removes a payment record, returning the obligation to
// unpaid. There is no voided state; the record simply goes away.
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PaymentsInRange returns payments with a due date inside [from, to].
func (s *PaymentService) PaymentsInRange(ctx context.Context, from, to schedule.Day) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("due_date >= ? AND due_date < ?", from.Time(), to.AddDays(1).Time()).
		Order("due_date").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	return payments, nil
}

// DueStatusDetail is one reconciled obligation, decorated with the user and
// class rows when they are known. Synthesized entries for orphan payments
// may reference a user or class that no longer exists; the emails and ids
// are still reported.
type DueStatusDetail struct {
	UserEmail string               `json:"user_email"`
	ClassID   string               `json:"class_id"`
	User      *models.User         `json:"user,omitempty"`
	Class     *models.ClassSession `json:"class,omitempty"`
	Paid      bool                 `json:"paid"`
	PaymentID string               `json:"payment_id,omitempty"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
}

// DueStatusesForDay computes the reconciled payment obligations of one day:
// the due pairs from the teacher's class configs merged with the recorded
// payments, de-duplicated per base class.
func (s *PaymentService) DueStatusesForDay(ctx context.Context, teacherID string, day schedule.Day, viewed schedule.MonthKey) ([]DueStatusDetail, error) {
	classes, err := s.calendar.ClassesForMonth(teacherID, day.MonthKey())
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	payments, err := s.PaymentsInRange(ctx, day, day)
	if err != nil {
		return nil, err
	}

	usersByEmail := make(map[string]*models.User, len(users))
	knownUsers := make(map[string]bool, len(users))
	for i := range users {
		usersByEmail[users[i].Email] = &users[i]
		knownUsers[users[i].Email] = true
	}

	scheduleClasses := make([]schedule.Class, 0, len(classes))
	classesByID := make(map[string]*models.ClassSession, len(classes))
	classesByBase := make(map[string]string, len(classes))
	for i := range classes {
		scheduleClasses = append(scheduleClasses, classes[i].ScheduleView())
		classesByID[classes[i].ID] = &classes[i]
		base := classes[i].BaseID()
		if _, ok := classesByBase[base]; !ok {
			classesByBase[base] = classes[i].ID
		}
	}

	records := make([]schedule.PaymentRecord, 0, len(payments))
	paymentsByID := make(map[string]*models.Payment, len(payments))
	for i := range payments {
		records = append(records, payments[i].Record())
		paymentsByID[payments[i].ID] = &payments[i]
	}

	pairs := schedule.DueForDay(day, scheduleClasses, knownUsers, viewed)
	statuses := schedule.ReconcileDay(day, pairs, records, classesByBase)

	details := make([]DueStatusDetail, 0, len(statuses))
	for _, st := range statuses {
		detail := DueStatusDetail{
			UserEmail: st.Pair.UserEmail,
			ClassID:   st.Pair.ClassID,
			User:      usersByEmail[st.Pair.UserEmail],
			Class:     classesByID[st.Pair.ClassID],
			Paid:      st.Paid,
			PaymentID: st.PaymentID,
		}
		if detail.Class != nil {
			detail.Amount = detail.Class.PaymentAmount
			detail.Currency = detail.Class.PaymentCurrency
		}
		if p, ok := paymentsByID[st.PaymentID]; ok {
			detail.Amount = p.Amount
			detail.Currency = p.Currency
		}
		details = append(details, detail)
	}
	return details, nil
}

// InitiatePaymentResult holds the result of an online payment initiation.
type InitiatePaymentResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	IsExisting  bool   `json:"is_existing"`
}

// InitiateOnlinePayment starts (or resumes) a gateway checkout for one
// obligation. An active session whose transaction is still pending is reused
// unless forceNew is set; settled transactions are rejected.
func (s *PaymentService) InitiateOnlinePayment(ctx context.Context, input RecordPaymentInput, student *models.User, className, callbackURL string, forceNew bool) (*InitiatePaymentResult, error) {
	if s.midtrans == nil {
		return nil, fmt.Errorf("online payments are not configured")
	}

	base := schedule.BaseID(input.ClassSessionID)

	candidates, err := s.paymentsForObligation(ctx, input)
	if err != nil {
		return nil, err
	}
	if existing := MatchExistingPayment(candidates, input.ClassSessionID, input.DueDate); existing != nil {
		return nil, fmt.Errorf("payment already recorded")
	}

	var session models.PaymentSession
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND class_session_id = ? AND due_date = ? AND is_active = ?",
			input.UserEmail, base, input.DueDate.Time(), true).
		Order("created_at desc").
		First(&session).Error
	if err == nil {
		result, reusable := s.tryReuseSession(ctx, &session, forceNew)
		if reusable {
			return result, nil
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check payment sessions: %w", err)
	}

	orderID := fmt.Sprintf("due-%s-%d", base, time.Now().Unix())
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(input.Amount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: student.Name,
			Email: student.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    base,
				Name:  fmt.Sprintf("Tuition for %s (%s)", className, input.DueDate),
				Price: int64(input.Amount),
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{Finish: callbackURL},
	}

	resp, err := s.midtrans.CreateTransaction(orderID, int64(input.Amount), req)
	if err != nil {
		return nil, err
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)
	newSession := models.PaymentSession{
		UserID:           input.UserEmail,
		ClassSessionID:   base,
		DueDate:          input.DueDate.Time(),
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           input.Amount,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	s.db.WithContext(ctx).Create(&newSession)

	return &InitiatePaymentResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (s *PaymentService) paymentsForObligation(ctx context.Context, input RecordPaymentInput) ([]models.Payment, error) {
	var candidates []models.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", input.UserEmail).
		Where("due_date >= ? AND due_date < ?", input.DueDate.Time(), input.DueDate.AddDays(1).Time()).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payments: %w", err)
	}
	return candidates, nil
}

// tryReuseSession checks the gateway status of an existing session and
// either reuses it or deactivates it so a fresh one can be created.
func (s *PaymentService) tryReuseSession(ctx context.Context, session *models.PaymentSession, forceNew bool) (*InitiatePaymentResult, bool) {
	statusResp, err := s.midtrans.CheckTransaction(session.OrderID)
	if err != nil {
		// Status check failed; assume the session is broken locally.
		session.IsActive = false
		s.db.WithContext(ctx).Save(session)
		return nil, false
	}

	switch statusResp.TransactionStatus {
	case "settlement", "capture":
		// Already paid; the callback will have recorded it.
		return nil, false
	case "deny", "expire", "cancel", "failure":
		session.IsActive = false
		s.db.WithContext(ctx).Save(session)
		return nil, false
	}

	// Pending.
	if forceNew {
		s.midtrans.CancelTransaction(session.OrderID)
		session.IsActive = false
		s.db.WithContext(ctx).Save(session)
		return nil, false
	}

	var snapResp snap.Response
	if err := json.Unmarshal(session.ResponseMetadata, &snapResp); err != nil {
		session.IsActive = false
		s.db.WithContext(ctx).Save(session)
		return nil, false
	}
	return &InitiatePaymentResult{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
		IsExisting:  true,
	}, true
}

// HandleGatewayNotification processes a gateway callback. Settled
// transactions record the payment through the same idempotent path as
// manual recording; failed ones deactivate the session.
func (s *PaymentService) HandleGatewayNotification(ctx context.Context, payload map[string]interface{}) error {
	raw, _ := json.Marshal(payload)
	s.db.WithContext(ctx).Create(&models.PaymentCallbackHistory{
		PaymentGateway: models.PaymentGatewayMidtrans,
		Metadata:       raw,
	})

	orderID, _ := payload["order_id"].(string)
	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)
	if orderID == "" {
		return fmt.Errorf("notification missing order_id")
	}

	var session models.PaymentSession
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&session).Error; err != nil {
		return fmt.Errorf("unknown order %s: %w", orderID, err)
	}

	settled := transactionStatus == "settlement" ||
		(transactionStatus == "capture" && fraudStatus != "challenge")
	failed := transactionStatus == "deny" || transactionStatus == "expire" || transactionStatus == "cancel"

	switch {
	case settled:
		amount := session.Amount
		if grossStr, ok := payload["gross_amount"].(string); ok {
			if parsed, err := strconv.ParseFloat(grossStr, 64); err == nil {
				amount = parsed
			}
		}
		_, _, err := s.RecordPayment(ctx, RecordPaymentInput{
			UserEmail:      session.UserID,
			ClassSessionID: session.ClassSessionID,
			DueDate:        schedule.DayOf(session.DueDate),
			Amount:         amount,
			Currency:       currencyFromPayload(payload),
			Gateway:        models.PaymentGatewayMidtrans,
		})
		if err != nil {
			return err
		}
		session.IsActive = false
		s.db.WithContext(ctx).Save(&session)
	case failed:
		session.IsActive = false
		s.db.WithContext(ctx).Save(&session)
	}
	return nil
}

func currencyFromPayload(payload map[string]interface{}) string {
	if c, ok := payload["currency"].(string); ok && c != "" {
		return c
	}
	return "IDR"
}
