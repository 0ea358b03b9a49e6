package http

import (
	"errors"
	"net/http"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/labstack/echo/v4"
)

// statusForKind maps an extraction failure to the HTTP status returned to
// the caller. Upstream reply problems are the gateway's fault, not the
// client's.
func statusForKind(kind extraction.Kind) int {
	switch kind {
	case extraction.KindConfiguration:
		return http.StatusBadRequest
	case extraction.KindAuthentication:
		return http.StatusUnauthorized
	case extraction.KindRateLimit:
		return http.StatusTooManyRequests
	case extraction.KindService:
		return http.StatusServiceUnavailable
	case extraction.KindParse, extraction.KindValidation:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorHandler renders every error as an ErrorResponse.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := ErrorResponse{Code: string(extraction.KindUnknown), Message: "internal server error"}

	var he *echo.HTTPError
	var ee *extraction.Error
	switch {
	case errors.As(err, &he):
		status = he.Code
		resp.Code = "request"
		if msg, ok := he.Message.(string); ok {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(he.Code)
		}
	case errors.As(err, &ee):
		status = statusForKind(ee.Kind)
		resp.Code = string(ee.Kind)
		resp.Message = ee.Message
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, resp)
}
