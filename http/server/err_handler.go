package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/meta"
)

// codeRouterError is used when the router itself rejects a request.
const codeRouterError = "ROUTER_ERROR"

// WriteErrorResponse writes err as a JSON error body with a status derived from its errx type.
// It returns err converted to errx.ErrorX so outer middlewares can log it.
func WriteErrorResponse(c *fiber.Ctx, err error, hideDetails bool) error {
	e := mapAnyErrorToErrorX(err)

	c.Status(mapErrorTypeToHTTPStatusCode(e.Type()))
	_ = c.JSON(errorResponse{
		TraceID: meta.Find(c.UserContext(), meta.TraceID),
		Error:   buildErrorSchema(e, hideDetails),
	})

	return e
}

// customErrorHandler is the last resort for errors no middleware handled.
// A response that already carries an error status is left as is.
func customErrorHandler(hideDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if r := c.Response(); r != nil && r.StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		_ = WriteErrorResponse(c, err, hideDetails)
		return nil
	}
}

type errorResponse struct {
	TraceID string      `json:"trace_id,omitempty"`
	Error   errorSchema `json:"error"`
}

// errorSchema defines the structure of error responses returned to clients.
type errorSchema struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Trace   string            `json:"trace,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

func buildErrorSchema(e errx.ErrorX, hideDetails bool) errorSchema {
	s := errorSchema{
		Code:    e.Code(),
		Message: e.Error(),
		Fields:  e.Fields(),
	}
	if !hideDetails {
		s.Trace = e.Trace()
		s.Details = e.Details()
	}
	return s
}

func mapErrorTypeToHTTPStatusCode(t errx.Type) int {
	switch t {
	case errx.T_Authentication:
		return fiber.StatusUnauthorized
	case errx.T_Forbidden:
		return fiber.StatusForbidden
	case errx.T_NotFound:
		return fiber.StatusNotFound
	case errx.T_Validation:
		return fiber.StatusBadRequest
	case errx.T_Conflict:
		return fiber.StatusConflict
	case errx.T_Throttling:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// mapAnyErrorToErrorX converts any error to errx.ErrorX. Fiber errors keep their status class.
func mapAnyErrorToErrorX(err error) errx.ErrorX {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return errx.AsErrorX(err)
	}

	var t errx.Type
	switch {
	case fiberErr.Code == fiber.StatusUnauthorized:
		t = errx.T_Authentication
	case fiberErr.Code == fiber.StatusForbidden:
		t = errx.T_Forbidden
	case fiberErr.Code == fiber.StatusNotFound:
		t = errx.T_NotFound
	case fiberErr.Code == fiber.StatusConflict:
		t = errx.T_Conflict
	case fiberErr.Code == fiber.StatusTooManyRequests:
		t = errx.T_Throttling
	case fiberErr.Code >= 400 && fiberErr.Code < 500:
		t = errx.T_Validation
	default:
		t = errx.T_Internal
	}

	return errx.AsErrorX(errx.New(
		fiberErr.Message,
		errx.WithCode(codeRouterError),
		errx.WithType(t),
		errx.WithDetails(errx.D{"fiber_code": fiberErr.Code}),
	))
}
