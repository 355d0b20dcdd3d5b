package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultSearchPage = 0
	defaultSearchSize = 20
)

// parseItemID reads the :id path parameter.
func parseItemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid item ID")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, falling back to def when absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}
