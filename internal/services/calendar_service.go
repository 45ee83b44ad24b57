package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

// CalendarData is the month batch the calendar view renders from: the
// teacher's classes intersecting the month, a per-day map of class ids, the
// known users and any birthdays falling in the month.
type CalendarData struct {
	Classes       []models.ClassSession `json:"classes"`
	DailyClassMap map[string][]string   `json:"dailyClassMap"`
	Users         []models.User         `json:"users"`
	Birthdays     map[string][]string   `json:"birthdays"`
}

// CalendarService assembles month-batch calendar data. Results are cached in
// Redis per (teacher, month) with a short TTL, and identical in-flight
// fetches are coalesced so a burst of month navigations issues one query.
type CalendarService struct {
	db    *gorm.DB
	cache *RedisCache
	group singleflight.Group
}

func NewCalendarService(db *gorm.DB, cache *RedisCache) *CalendarService {
	return &CalendarService{db: db, cache: cache}
}

func calendarCacheKey(teacherID string, month schedule.MonthKey) string {
	return fmt.Sprintf("calendar:%s:%s", teacherID, month)
}

// MonthData returns the calendar batch for one teacher and month. When the
// caller's context is already canceled (the user navigated away), the shared
// result is discarded for that caller instead of being applied stale.
func (s *CalendarService) MonthData(ctx context.Context, teacherID string, month schedule.MonthKey) (*CalendarData, error) {
	key := calendarCacheKey(teacherID, month)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if s.cache == nil {
			return s.buildMonthData(teacherID, month)
		}
		return GetOrSet(s.cache, context.Background(), key, CalendarCacheTTL, func() (*CalendarData, error) {
			return s.buildMonthData(teacherID, month)
		})
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return v.(*CalendarData), nil
}

// Invalidate drops every cached month of one teacher's calendar. Called
// after any class or enrollment change.
func (s *CalendarService) Invalidate(ctx context.Context, teacherID string) {
	if s.cache == nil {
		return
	}
	// Best effort: a failed invalidation only extends staleness to the TTL.
	_ = s.cache.DeletePattern(ctx, "calendar:"+teacherID+":*")
}

// ClassesForMonth returns the teacher's classes whose schedule intersects
// the month.
func (s *CalendarService) ClassesForMonth(teacherID string, month schedule.MonthKey) ([]models.ClassSession, error) {
	first := month.First().Time()
	last := month.Last().Time()

	var classes []models.ClassSession
	err := s.db.
		Where("teacher_id = ?", teacherID).
		Where("start_date <= ?", last).
		Where("end_date IS NULL OR end_date >= ?", first).
		Order("id").
		Find(&classes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	return classes, nil
}

func (s *CalendarService) buildMonthData(teacherID string, month schedule.MonthKey) (*CalendarData, error) {
	classes, err := s.ClassesForMonth(teacherID, month)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.Order("name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	data := &CalendarData{
		Classes:       classes,
		DailyClassMap: make(map[string][]string),
		Users:         users,
		Birthdays:     make(map[string][]string),
	}

	for d := month.First(); !d.After(month.Last()); d = d.AddDays(1) {
		for _, class := range classes {
			if class.OccursOn(d) {
				data.DailyClassMap[d.String()] = append(data.DailyClassMap[d.String()], class.ID)
			}
		}
		for _, u := range users {
			if u.BirthdayOn(d.Month(), d.DayOfMonth()) {
				data.Birthdays[d.String()] = append(data.Birthdays[d.String()], u.Name)
			}
		}
	}

	return data, nil
}
