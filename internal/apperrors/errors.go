package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors shared across packages.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrPaymentFailed  = errors.New("payment failed")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError is an error with a stable code and HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(message string) *AppError {
	return &AppError{Code: "INVALID_INPUT", Message: message, Status: fiber.StatusBadRequest, Err: ErrInvalidInput}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Status:  fiber.StatusNotFound,
		Err:     ErrNotFound,
	}
}

func Conflict(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, Status: fiber.StatusConflict, Err: ErrConflict}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: fiber.StatusUnauthorized, Err: ErrUnauthorized}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, Status: fiber.StatusForbidden, Err: ErrForbidden}
}

// PaymentDeclined is returned when the payment processor refuses a charge.
func PaymentDeclined(message string) *AppError {
	return &AppError{Code: "PAYMENT_DECLINED", Message: message, Status: fiber.StatusPaymentRequired, Err: ErrPaymentFailed}
}

// Unavailable is returned when a downstream dependency cannot be reached.
func Unavailable(message string) *AppError {
	return &AppError{Code: "SERVICE_UNAVAILABLE", Message: message, Status: fiber.StatusServiceUnavailable, Err: ErrServiceUnavail}
}

func Internal(err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: "an internal error occurred", Status: fiber.StatusInternalServerError, Err: err}
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrPaymentFailed):
		return fiber.StatusPaymentRequired
	case errors.Is(err, ErrServiceUnavail):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as a JSON body. Internal errors never leak their cause.
func Respond(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)

	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(status).JSON(fiber.Map{"code": appErr.Code, "message": appErr.Message})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(status).JSON(fiber.Map{"code": "HTTP_ERROR", "message": fe.Message})
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"code": "INTERNAL_ERROR", "message": "an internal error occurred"})
	}
	return c.Status(status).JSON(fiber.Map{"code": "ERROR", "message": err.Error()})
}

// FiberErrorHandler is used as fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return Respond(c, err)
}
