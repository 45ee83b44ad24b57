package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
	"tutordesk/internal/services"
)

// ReminderTarget is one student to remind about an upcoming due date.
type ReminderTarget struct {
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phonenumber"`
	ClassTitle  string  `json:"class_title"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	DueDate     string  `json:"due_date"`
}

// PaymentReminderArgs defines the arguments for the payment reminder task.
// Targets is empty on the recurring run and is filled in on retry tasks so a
// retry only re-sends to the students that failed.
type PaymentReminderArgs struct {
	TeacherID     string           `json:"teacher_id"`
	DaysAhead     int              `json:"days_ahead"`
	NotifTemplate string           `json:"notiftemplate"`
	Subject       string           `json:"subject"`
	Targets       []ReminderTarget `json:"targets,omitempty"`
	AttemptCount  int              `json:"attempt_count"`
}

// PaymentReminderTaskDef encapsulates the payment reminder task logic
type PaymentReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *PaymentReminderTaskDef) TaskID() string {
	return "payment_reminder"
}

// CreateRecurring builds a recurring daily reminder task for a teacher.
func (t *PaymentReminderTaskDef) CreateRecurring(args PaymentReminderArgs, firstRun time.Time) (*models.ScheduledTask, error) {
	interval := "FREQ=DAILY"
	return BuildScheduledTask(t.TaskID(), args, firstRun, &interval, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution computes the unpaid dues DaysAhead days from now and sends
// a reminder to each affected student over their preferred channel.
func (t *PaymentReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var parsedArgs PaymentReminderArgs
	if err := json.Unmarshal(argsBytes, &parsedArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if parsedArgs.DaysAhead <= 0 {
		parsedArgs.DaysAhead = 3
	}

	targets := parsedArgs.Targets
	if len(targets) == 0 {
		targets, err = t.collectTargets(db, parsedArgs)
		if err != nil {
			return nil, err
		}
	}

	total := len(targets)
	successCount := 0
	skippedCount := 0
	var failures []string
	var failedTargets []ReminderTarget

	for _, target := range targets {
		var pref models.UserNotifPreference
		err := db.Where("user_id = ?", target.Email).First(&pref).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Printf("Skipping reminder for %s: no preference found", target.Email)
				skippedCount++
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: db error", target.Email))
			failedTargets = append(failedTargets, target)
			continue
		}

		var sendErr error
		switch pref.Channel {
		case models.NotificationChannelEmail:
			sendErr = sendReminderEmail(target, parsedArgs)
		case models.NotificationChannelWhatsapp:
			sendErr = sendReminderWhatsapp(target, parsedArgs, pref)
		case models.NotificationChannelNone:
			skippedCount++
			continue
		default:
			log.Printf("Unsupported notification channel %s for %s", pref.Channel, target.Email)
			skippedCount++
			continue
		}

		if sendErr != nil {
			log.Printf("Failed to send reminder to %s via %s: %v", target.Email, pref.Channel, sendErr)
			failures = append(failures, fmt.Sprintf("%s: %v", target.Email, sendErr))
			failedTargets = append(failedTargets, target)
		} else {
			successCount++
		}
	}

	result := map[string]interface{}{
		"total":   total,
		"success": successCount,
		"skipped": skippedCount,
		"failure": len(failedTargets),
	}

	if len(failedTargets) > 0 {
		result["errors"] = failures

		attempt := parsedArgs.AttemptCount
		maxRetries := task.MaxAttempt

		if attempt < maxRetries {
			log.Printf("Partial failure: %d reminders failed. Rescheduling for attempt %d", len(failedTargets), attempt+1)

			newArgs := parsedArgs
			newArgs.Targets = failedTargets
			newArgs.AttemptCount = attempt + 1

			newTask, err := BuildScheduledTask(t.TaskID(), newArgs, time.Now().Add(5*time.Minute), nil, models.ScheduledTaskTypeOneTime, maxRetries)
			if err == nil {
				db.Create(newTask)
			} else {
				log.Printf("Failed to create retry task: %v", err)
			}
		} else {
			return result, fmt.Errorf("max attempts reached, failed to deliver %d reminders", len(failedTargets))
		}
	}

	return result, nil
}

// collectTargets evaluates the payment schedule for the configured teacher
// and returns the students with an unpaid due DaysAhead days from now.
func (t *PaymentReminderTaskDef) collectTargets(db *gorm.DB, args PaymentReminderArgs) ([]ReminderTarget, error) {
	day := schedule.DayOf(time.Now().UTC().AddDate(0, 0, args.DaysAhead))
	month := day.MonthKey()

	var rows []models.ClassSession
	query := db.Where("start_date <= ?", month.Last().Time()).
		Where("end_date IS NULL OR end_date >= ?", month.First().Time())
	if args.TeacherID != "" {
		query = query.Where("teacher_id = ?", args.TeacherID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	knownUsers := make(map[string]bool, len(users))
	usersByEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		knownUsers[u.Email] = true
		usersByEmail[u.Email] = u
	}

	classes := make([]schedule.Class, 0, len(rows))
	rowsByBase := make(map[string]models.ClassSession, len(rows))
	for _, row := range rows {
		classes = append(classes, row.ScheduleView())
		if _, ok := rowsByBase[row.BaseID()]; !ok {
			rowsByBase[row.BaseID()] = row
		}
	}

	pairs := schedule.DueForDay(day, classes, knownUsers, month)
	if len(pairs) == 0 {
		return nil, nil
	}

	var paid []models.Payment
	if err := db.Where("due_date >= ? AND due_date < ?", day.Time(), day.AddDays(1).Time()).
		Find(&paid).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	records := make([]schedule.PaymentRecord, 0, len(paid))
	for _, p := range paid {
		records = append(records, p.Record())
	}

	classesByBase := make(map[string]string, len(rowsByBase))
	for base := range rowsByBase {
		classesByBase[base] = base
	}

	var targets []ReminderTarget
	for _, status := range schedule.ReconcileDay(day, pairs, records, classesByBase) {
		if status.Paid {
			continue
		}
		user := usersByEmail[status.Pair.UserEmail]
		row := rowsByBase[schedule.BaseID(status.Pair.ClassID)]
		targets = append(targets, ReminderTarget{
			Email:       status.Pair.UserEmail,
			Name:        user.Name,
			PhoneNumber: user.Phone,
			ClassTitle:  row.Title,
			Amount:      row.PaymentAmount,
			Currency:    row.PaymentCurrency,
			DueDate:     day.String(),
		})
	}
	return targets, nil
}

// PaymentReminderTask is the singleton instance of PaymentReminderTaskDef
var PaymentReminderTask = &PaymentReminderTaskDef{}

// sendReminderWhatsapp handles sending WhatsApp reminders
func sendReminderWhatsapp(target ReminderTarget, args PaymentReminderArgs, pref models.UserNotifPreference) error {
	if args.NotifTemplate == "" {
		return fmt.Errorf("notiftemplate is missing")
	}

	whatsappService := services.NewWhatsappService()

	msg := replacePlaceholders(args.NotifTemplate, target)

	var chatID string
	if pref.WhatsappTargetType == models.WhatsappTargetTypeGroup {
		chatID = pref.WhatsappGroupID
		if chatID == "" {
			return fmt.Errorf("group ID is empty")
		}
		if !strings.HasSuffix(chatID, "@g.us") {
			chatID = chatID + "@g.us"
		}
	} else {
		chatID = target.PhoneNumber
	}

	return whatsappService.SendMessage(chatID, msg)
}

// sendReminderEmail handles sending Email reminders
func sendReminderEmail(target ReminderTarget, args PaymentReminderArgs) error {
	if args.NotifTemplate == "" {
		return fmt.Errorf("notiftemplate is missing")
	}

	emailService := services.NewEmailService()

	subject := "Payment reminder"
	if args.Subject != "" {
		subject = args.Subject
	}

	msg := replacePlaceholders(args.NotifTemplate, target)

	return emailService.SendEmail([]string{target.Email}, subject, msg)
}

func replacePlaceholders(template string, target ReminderTarget) string {
	res := strings.ReplaceAll(template, "$name", target.Name)
	res = strings.ReplaceAll(res, "$email", target.Email)
	res = strings.ReplaceAll(res, "$class", target.ClassTitle)
	res = strings.ReplaceAll(res, "$amount", fmt.Sprintf("%v", target.Amount))
	res = strings.ReplaceAll(res, "$currency", target.Currency)
	res = strings.ReplaceAll(res, "$due_date", target.DueDate)
	return res
}
