package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

// PlanHandler manages class plans (checklists) and class notes.
type PlanHandler struct {
	db *gorm.DB
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

type classPlanRequest struct {
	ClassSessionID string                 `json:"class_session_id" validate:"required"`
	Date           schedule.Day           `json:"date" validate:"required"`
	Title          string                 `json:"title"`
	Items          []models.ChecklistItem `json:"items"`
}

type noteRequest struct {
	ClassSessionID string       `json:"class_session_id" validate:"required"`
	Date           schedule.Day `json:"date" validate:"required"`
	Body           string       `json:"body" validate:"required"`
}

// ListPlans returns the plans of one class, optionally for one date.
func (h *PlanHandler) ListPlans(c echo.Context) error {
	query := h.db.Model(&models.ClassPlan{}).
		Where("class_session_id = ?", schedule.BaseID(c.QueryParam("class")))
	if c.QueryParam("date") != "" {
		day, err := dayFromQuery(c, "date")
		if err != nil {
			return err
		}
		query = query.Where("date >= ? AND date < ?", day.Time(), day.AddDays(1).Time())
	}

	var plans []models.ClassPlan
	if err := query.Order("date desc").Find(&plans).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch class plans")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": plans})
}

// CreatePlan stores a class plan.
func (h *PlanHandler) CreatePlan(c echo.Context) error {
	var req classPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	plan := models.ClassPlan{
		ID:             uuid.New().String(),
		ClassSessionID: schedule.BaseID(req.ClassSessionID),
		Date:           req.Date.Time(),
		Title:          req.Title,
		Items:          req.Items,
	}
	if err := h.db.Create(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create class plan")
	}
	return c.JSON(http.StatusCreated, plan)
}

// UpdatePlan replaces the checklist of a class plan.
func (h *PlanHandler) UpdatePlan(c echo.Context) error {
	var plan models.ClassPlan
	if err := h.db.First(&plan, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "class plan not found")
	}

	var req classPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	plan.Title = req.Title
	plan.Items = req.Items
	plan.Date = req.Date.Time()

	if err := h.db.Save(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update class plan")
	}
	return c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a class plan.
func (h *PlanHandler) DeletePlan(c echo.Context) error {
	if err := h.db.Delete(&models.ClassPlan{}, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete class plan")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// ListNotes returns the notes of one class, optionally for one date.
func (h *PlanHandler) ListNotes(c echo.Context) error {
	query := h.db.Model(&models.Note{}).
		Where("class_session_id = ?", schedule.BaseID(c.QueryParam("class")))
	if c.QueryParam("date") != "" {
		day, err := dayFromQuery(c, "date")
		if err != nil {
			return err
		}
		query = query.Where("date >= ? AND date < ?", day.Time(), day.AddDays(1).Time())
	}

	var notes []models.Note
	if err := query.Order("date desc").Find(&notes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch notes")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notes": notes})
}

// CreateNote stores a class note.
func (h *PlanHandler) CreateNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note := models.Note{
		ID:             uuid.New().String(),
		ClassSessionID: schedule.BaseID(req.ClassSessionID),
		Date:           req.Date.Time(),
		Body:           req.Body,
	}
	if err := h.db.Create(&note).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create note")
	}
	return c.JSON(http.StatusCreated, note)
}

// UpdateNote updates a class note.
func (h *PlanHandler) UpdateNote(c echo.Context) error {
	var note models.Note
	if err := h.db.First(&note, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note.Body = req.Body
	note.Date = req.Date.Time()

	if err := h.db.Save(&note).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update note")
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote removes a class note.
func (h *PlanHandler) DeleteNote(c echo.Context) error {
	if err := h.db.Delete(&models.Note{}, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete note")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
