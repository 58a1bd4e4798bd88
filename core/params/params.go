package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// QueryParams carries common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
	Filters    map[string]string
}

// NewQueryParams parses paging and search parameters from the request,
// applying sane defaults.
func NewQueryParams(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: 1,
		PageSize:   20,
		Search:     c.QueryParam("search"),
		Filters:    map[string]string{},
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		p.PageSize = v
	}

	return p
}

// Add records an extra filter key.
func (p *QueryParams) Add(key, value string) {
	if p.Filters == nil {
		p.Filters = map[string]string{}
	}
	p.Filters[key] = value
}

// Get returns a filter value, empty when unset.
func (p QueryParams) Get(key string) string {
	return p.Filters[key]
}
