package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Codes for failures that do not come from the ledger itself.
const (
	CodeInvalidRequest      = "InvalidRequest"
	CodeUnauthenticated     = "Unauthenticated"
	CodeConcurrencyConflict = "ConcurrencyConflict"
	CodeInternal            = "Internal"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusOf maps err to an HTTP status by its ledger error category.
func StatusOf(err error) int {
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrState):
		return http.StatusConflict
	case errors.Is(err, core.ErrPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTransfer):
		return http.StatusBadGateway
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorResponseFor(err error, status int) errorResponse {
	var httpErr *echo.HTTPError
	var coded *core.Error

	switch {
	case errors.As(err, &httpErr):
		code := CodeInvalidRequest
		if status == http.StatusUnauthorized {
			code = CodeUnauthenticated
		}
		return errorResponse{Code: code, Message: fmt.Sprint(httpErr.Message)}
	case errors.As(err, &coded):
		return errorResponse{Code: string(coded.Code), Message: coded.Error()}
	case status == http.StatusServiceUnavailable:
		return errorResponse{Code: CodeConcurrencyConflict, Message: "too many concurrent changes, try again"}
	default:
		return errorResponse{Code: CodeInternal, Message: "internal error"}
	}
}

// handleError is the echo.HTTPErrorHandler of the server.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "status", status, "error", err.Error())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponseFor(err, status))
	}

	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "writing error response failed", "error", err.Error())
	}
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid JSON")
	}

	if err := c.Validate(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return badRequest(fmt.Sprintf("invalid field %s: %s", fieldErrs[0].Field(), fieldErrs[0].Tag()))
		}

		return badRequest(err.Error())
	}

	return nil
}
