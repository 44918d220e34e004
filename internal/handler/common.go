package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/repository"
	"github.com/iliyamo/clinic-management/internal/result"
)

// currentUserID returns the subject claim the auth middleware stored on the
// context, or 0 when the request is unauthenticated.
func currentUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// queryID parses an optional numeric query parameter, returning 0 when the
// parameter is absent.
func queryID(c echo.Context, name string) uint64 {
	v := c.QueryParam(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// invalidID writes the shared bad-path-parameter envelope.
func invalidID(c echo.Context) error {
	res := result.Fail[any](nil, result.KindValidation, "invalid id.", http.StatusBadRequest)
	return c.JSON(res.StatusCode, res)
}

// storeFailure maps repository sentinel errors onto envelopes; anything
// unrecognized is logged and surfaced as a sanitized persistence failure.
func storeFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		res := result.Fail[any](nil, result.KindPersistence, "record not found.", http.StatusNotFound)
		return c.JSON(res.StatusCode, res)
	case errors.Is(err, repository.ErrConflict):
		res := result.Fail[any](nil, result.KindPersistence, "conflicting state.", http.StatusConflict)
		return c.JSON(res.StatusCode, res)
	case errors.Is(err, repository.ErrEmailExists):
		res := result.Fail[any](nil, result.KindPersistence, "email already exists.", http.StatusConflict)
		return c.JSON(res.StatusCode, res)
	default:
		c.Logger().Errorf("store: %v", err)
		res := result.Persistence[any](err)
		return c.JSON(res.StatusCode, res)
	}
}
