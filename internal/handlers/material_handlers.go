package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

// MaterialHandler manages class materials and homework, both attached to a
// (class, date) pair.
type MaterialHandler struct {
	db *gorm.DB
}

func NewMaterialHandler(db *gorm.DB) *MaterialHandler {
	return &MaterialHandler{db: db}
}

type materialRequest struct {
	ClassSessionID string       `json:"class_session_id" validate:"required"`
	Date           schedule.Day `json:"date" validate:"required"`
	Title          string       `json:"title"`
	Body           string       `json:"body"`
	ImageURLs      []string     `json:"image_urls"`
}

type homeworkRequest struct {
	materialRequest
	DueDate schedule.Day `json:"due_date"`
	Done    bool         `json:"done"`
}

// ListMaterials returns the materials of one class, optionally for one date.
func (h *MaterialHandler) ListMaterials(c echo.Context) error {
	query := h.db.Model(&models.Material{}).
		Where("class_session_id = ?", schedule.BaseID(c.QueryParam("class")))
	if c.QueryParam("date") != "" {
		day, err := dayFromQuery(c, "date")
		if err != nil {
			return err
		}
		query = query.Where("date >= ? AND date < ?", day.Time(), day.AddDays(1).Time())
	}

	var materials []models.Material
	if err := query.Order("date desc").Find(&materials).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch materials")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"materials": materials})
}

// CreateMaterial stores a material document.
func (h *MaterialHandler) CreateMaterial(c echo.Context) error {
	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	material := models.Material{
		ID:             uuid.New().String(),
		ClassSessionID: schedule.BaseID(req.ClassSessionID),
		Date:           req.Date.Time(),
		Title:          req.Title,
		Body:           req.Body,
		ImageURLs:      req.ImageURLs,
	}
	if err := h.db.Create(&material).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create material")
	}
	return c.JSON(http.StatusCreated, material)
}

// UpdateMaterial updates a material document.
func (h *MaterialHandler) UpdateMaterial(c echo.Context) error {
	var material models.Material
	if err := h.db.First(&material, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "material not found")
	}

	var req materialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	material.Title = req.Title
	material.Body = req.Body
	material.ImageURLs = req.ImageURLs
	material.Date = req.Date.Time()

	if err := h.db.Save(&material).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update material")
	}
	return c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes a material document.
func (h *MaterialHandler) DeleteMaterial(c echo.Context) error {
	if err := h.db.Delete(&models.Material{}, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete material")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// ListHomework returns the homework of one class, optionally for one date.
func (h *MaterialHandler) ListHomework(c echo.Context) error {
	query := h.db.Model(&models.Homework{}).
		Where("class_session_id = ?", schedule.BaseID(c.QueryParam("class")))
	if c.QueryParam("date") != "" {
		day, err := dayFromQuery(c, "date")
		if err != nil {
			return err
		}
		query = query.Where("date >= ? AND date < ?", day.Time(), day.AddDays(1).Time())
	}

	var homework []models.Homework
	if err := query.Order("date desc").Find(&homework).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch homework")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"homework": homework})
}

// CreateHomework stores a homework document.
func (h *MaterialHandler) CreateHomework(c echo.Context) error {
	var req homeworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	homework := models.Homework{
		ID:             uuid.New().String(),
		ClassSessionID: schedule.BaseID(req.ClassSessionID),
		Date:           req.Date.Time(),
		DueDate:        req.DueDate.Time(),
		Title:          req.Title,
		Body:           req.Body,
		ImageURLs:      req.ImageURLs,
		Done:           req.Done,
	}
	if err := h.db.Create(&homework).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create homework")
	}
	return c.JSON(http.StatusCreated, homework)
}

// UpdateHomework updates a homework document.
func (h *MaterialHandler) UpdateHomework(c echo.Context) error {
	var homework models.Homework
	if err := h.db.First(&homework, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "homework not found")
	}

	var req homeworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	homework.Title = req.Title
	homework.Body = req.Body
	homework.ImageURLs = req.ImageURLs
	homework.Date = req.Date.Time()
	homework.DueDate = req.DueDate.Time()
	homework.Done = req.Done

	if err := h.db.Save(&homework).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update homework")
	}
	return c.JSON(http.StatusOK, homework)
}

// DeleteHomework removes a homework document.
func (h *MaterialHandler) DeleteHomework(c echo.Context) error {
	if err := h.db.Delete(&models.Homework{}, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete homework")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
