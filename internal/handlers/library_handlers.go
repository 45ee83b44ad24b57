package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tutordesk/internal/middleware"
	"tutordesk/internal/models"
)

// LibraryHandler manages the reusable content library.
type LibraryHandler struct {
	db *gorm.DB
}

func NewLibraryHandler(db *gorm.DB) *LibraryHandler {
	return &LibraryHandler{db: db}
}

type libraryItemRequest struct {
	Title    string   `json:"title" validate:"required"`
	Category string   `json:"category"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"image_url"`
}

// ListItems returns the caller's library items, optionally by category,
// paginated.
func (h *LibraryHandler) ListItems(c echo.Context) error {
	pagination := parsePagination(c, 20)

	query := h.db.Model(&models.LibraryItem{}).Where("teacher_id = ?", middleware.UserUID(c))
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count library items")
	}
	limit, offset := pagination.resolve(totalCount)

	var items []models.LibraryItem
	if err := query.Order("updated_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch library items")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":      items,
		"pagination": pagination,
	})
}

// GetItem returns one library item.
func (h *LibraryHandler) GetItem(c echo.Context) error {
	var item models.LibraryItem
	if err := h.db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "library item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// CreateItem stores a new library item.
func (h *LibraryHandler) CreateItem(c echo.Context) error {
	var req libraryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item := models.LibraryItem{
		ID:        uuid.New().String(),
		TeacherID: middleware.UserUID(c),
		Title:     req.Title,
		Category:  req.Category,
		Body:      req.Body,
		Tags:      req.Tags,
		ImageURL:  req.ImageURL,
	}
	if err := h.db.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create library item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem updates a library item.
func (h *LibraryHandler) UpdateItem(c echo.Context) error {
	var item models.LibraryItem
	if err := h.db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "library item not found")
	}
	if item.TeacherID != middleware.UserUID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only edit your own library")
	}

	var req libraryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item.Title = req.Title
	item.Category = req.Category
	item.Body = req.Body
	item.Tags = req.Tags
	item.ImageURL = req.ImageURL

	if err := h.db.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update library item")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes a library item.
func (h *LibraryHandler) DeleteItem(c echo.Context) error {
	var item models.LibraryItem
	if err := h.db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "library item not found")
	}
	if item.TeacherID != middleware.UserUID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only edit your own library")
	}

	if err := h.db.Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete library item")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
