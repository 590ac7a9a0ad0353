package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap copies base and attaches err, leaving the shared value untouched.
func Wrap(base *Error, err error) *Error {
	return New(base.Code, base.Message, err)
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrConflict           = New(http.StatusConflict, "Conflict", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Payment error types
var (
	ErrOrderNotFound        = New(http.StatusNotFound, "Order not found", nil)
	ErrOrderAlreadyPaid     = New(http.StatusConflict, "Order is already paid", nil)
	ErrMethodUnavailable    = New(http.StatusUnprocessableEntity, "Payment method unavailable", nil)
	ErrInvalidAmount        = New(http.StatusUnprocessableEntity, "Order amount must be greater than zero", nil)
	ErrGatewayUnavailable   = New(http.StatusBadGateway, "Payment gateway unavailable", nil)
	ErrInvoiceNotFound      = New(http.StatusNotFound, "Invoice not found", nil)
	ErrPaymentMethodMissing = New(http.StatusNotFound, "Payment method not found", nil)
)

// Respond writes err as JSON. Anything that is not an *Error becomes a 500
// whose wrapped cause is never serialized.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Wrap(ErrInternalServer, err)
	}
	c.AbortWithStatusJSON(appErr.Code, appErr)
}
