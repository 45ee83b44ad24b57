package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"tutordesk/internal/schedule"
)

// CustomValidator plugs go-playground/validator into Echo's Bind/Validate.
type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Pagination carries the page parameters of list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
}

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(c echo.Context, defaultSize int) Pagination {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	size := defaultSize
	if s, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && s > 0 && s <= 100 {
		size = s
	}
	return Pagination{Page: page, PageSize: size}
}

func (p *Pagination) resolve(totalCount int64) (limit, offset int) {
	p.TotalCount = totalCount
	p.TotalPages = int((totalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
	if p.TotalPages == 0 {
		p.TotalPages = 1
	}
	if p.Page > p.TotalPages {
		p.Page = p.TotalPages
	}
	return p.PageSize, (p.Page - 1) * p.PageSize
}

// monthFromQuery reads month/year query params into a MonthKey.
func monthFromQuery(c echo.Context) (schedule.MonthKey, error) {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return schedule.MonthKey{}, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return schedule.MonthKey{}, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	return schedule.MonthKey{Year: year, Month: time.Month(month)}, nil
}

// dayFromQuery reads a date query param into a Day.
func dayFromQuery(c echo.Context, param string) (schedule.Day, error) {
	d, err := schedule.ParseDay(c.QueryParam(param))
	if err != nil {
		return schedule.Day{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}
