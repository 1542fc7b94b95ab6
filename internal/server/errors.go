package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trackwise/billing/internal/gateway"
	invoicedomain "github.com/trackwise/billing/internal/invoice/domain"
	"github.com/trackwise/billing/internal/money"
	orderdomain "github.com/trackwise/billing/internal/order/domain"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	subscriptiondomain "github.com/trackwise/billing/internal/subscription/domain"
	userdomain "github.com/trackwise/billing/internal/user/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns domain errors attached to the context
// into the HTTP error taxonomy. In production, internal error details
// never reach the client.
func ErrorHandlingMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err, production)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error, production bool) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if errors.Is(err, gateway.ErrGatewayNotSupported) {
		return http.StatusBadRequest, errorPayload{
			Type:    "unsupported_gateway",
			Message: "unsupported payment gateway",
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		message := "internal server error"
		if !production {
			message = err.Error()
		}
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: message,
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orderdomain.ErrMissingPlan),
		errors.Is(err, orderdomain.ErrMissingAmount),
		errors.Is(err, orderdomain.ErrMissingCurrency),
		errors.Is(err, orderdomain.ErrMissingGateway),
		errors.Is(err, orderdomain.ErrAmountNotNumeric),
		errors.Is(err, orderdomain.ErrAmountPriceMismatch),
		errors.Is(err, paymentdomain.ErrAmountMismatch),
		errors.Is(err, paymentdomain.ErrCurrencyMismatch),
		errors.Is(err, subscriptiondomain.ErrAppliedUserRequired),
		errors.Is(err, money.ErrNotNumeric):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, paymentdomain.ErrPaymentNotOwned),
		errors.Is(err, subscriptiondomain.ErrAppliedUserForbidden),
		errors.Is(err, subscriptiondomain.ErrPaymentNotEligible),
		errors.Is(err, subscriptiondomain.ErrPlanMismatch),
		errors.Is(err, subscriptiondomain.ErrAmountNotEligible),
		errors.Is(err, subscriptiondomain.ErrPlanNotAvailable):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, paymentdomain.ErrPaymentNotPending),
		errors.Is(err, paymentdomain.ErrPaymentAlreadyFinalized):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, subscriptiondomain.ErrPaymentUserMissing),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, orderdomain.ErrMissingPlan):
		return "missing_plan"
	case errors.Is(err, orderdomain.ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, orderdomain.ErrMissingCurrency):
		return "missing_currency"
	case errors.Is(err, orderdomain.ErrMissingGateway):
		return "missing_gateway"
	case errors.Is(err, orderdomain.ErrAmountNotNumeric),
		errors.Is(err, money.ErrNotNumeric):
		return "amount_not_numeric"
	case errors.Is(err, orderdomain.ErrAmountPriceMismatch):
		return "amount_price_mismatch"
	case errors.Is(err, paymentdomain.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, paymentdomain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, subscriptiondomain.ErrAppliedUserRequired):
		return "applied_user_required"
	default:
		return strings.SplitN(err.Error(), ":", 2)[0]
	}
}

func validationErrorField(code string) string {
	switch {
	case strings.HasPrefix(code, "missing_"):
		return strings.TrimPrefix(code, "missing_")
	case strings.HasPrefix(code, "amount_"):
		return "amount"
	case strings.HasPrefix(code, "currency_"):
		return "currency"
	case code == "applied_user_required":
		return "appliedUserId"
	default:
		return "request"
	}
}

// classifyErrorForLog feeds the request logger's error fields.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err, true)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
