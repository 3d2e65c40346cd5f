package params

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
)

// QueryParams carries pagination values parsed from the query string.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromEchoContext reads ?page= and ?page_size=, clamping to sane bounds.
func FromEchoContext(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v >= 1 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v >= 1 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}

	return p
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
