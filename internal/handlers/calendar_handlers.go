package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tutordesk/internal/middleware"
	"tutordesk/internal/services"
)

// CalendarHandler serves the month-batch endpoints the calendar view loads.
type CalendarHandler struct {
	calendar *services.CalendarService
}

func NewCalendarHandler(calendar *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// teacherIDFromRequest resolves which teacher's calendar is requested. An
// explicit userId (or adminId) query param wins; otherwise the caller's own
// uid is used.
func teacherIDFromRequest(c echo.Context) string {
	if id := c.QueryParam("userId"); id != "" {
		return id
	}
	if id := c.QueryParam("adminId"); id != "" {
		return id
	}
	return middleware.UserUID(c)
}

// GetCalendarData returns classes, the per-day class map and users for one
// month.
func (h *CalendarHandler) GetCalendarData(c echo.Context) error {
	month, err := monthFromQuery(c)
	if err != nil {
		return err
	}

	data, err := h.calendar.MonthData(c.Request().Context(), teacherIDFromRequest(c), month)
	if err != nil {
		if c.Request().Context().Err() != nil {
			// The client navigated away; nothing to report.
			return nil
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load calendar data")
	}

	return c.JSON(http.StatusOK, data)
}

// GetClassesForMonth returns just the classes intersecting one month.
func (h *CalendarHandler) GetClassesForMonth(c echo.Context) error {
	month, err := monthFromQuery(c)
	if err != nil {
		return err
	}

	classes, err := h.calendar.ClassesForMonth(teacherIDFromRequest(c), month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load classes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"classes": classes})
}
