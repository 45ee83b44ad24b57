package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// JSONErrorHandler is the custom Echo error handler. Every failure becomes a
// JSON body with a user-presentable message; nothing is treated as fatal.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		if msg, ok := e.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = defaultMessage(code)
		}
	default:
		if err == gorm.ErrRecordNotFound {
			code = http.StatusNotFound
			message = "The requested resource was not found."
		}
	}

	c.Logger().Error(err)

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": message})
}

func defaultMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusUnauthorized:
		return "Please log in to continue."
	case http.StatusBadRequest:
		return "The request could not be processed."
	default:
		return "Something went wrong. Please try again later."
	}
}
