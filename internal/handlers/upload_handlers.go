package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tutordesk/internal/services"
)

// UploadHandler accepts multipart file uploads and returns download URLs.
type UploadHandler struct {
	storage *services.StorageService
}

func NewUploadHandler(storage *services.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload stores one file under the requested folder (materials, homework,
// library) and returns its URL.
func (h *UploadHandler) Upload(c echo.Context) error {
	if h.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "file storage is not configured")
	}

	folder := c.FormValue("folder")
	switch folder {
	case "materials", "homework", "library":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "folder must be one of materials, homework, library")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.storage.Upload(c.Request().Context(), folder, fileHeader.Filename, contentType, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to upload file")
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}
