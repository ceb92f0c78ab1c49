package handler

import (
	"errors"
	"net/http"

	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/metrics"
	"superfaktura-callback/internal/features/callback/domain"
	"superfaktura-callback/internal/features/callback/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeMissingParam     = "rest_missing_callback_param"
	CodeInvalidParam     = "rest_invalid_param"
	CodeInvalidSecretKey = "invalid_secret_key"
	CodeLookupFailed     = "order_lookup_failed"
	CodeUpdateFailed     = "order_update_failed"
	CodeInternal         = "internal_error"
)

// CallbackHandler handles invoicing provider callbacks.
type CallbackHandler struct {
	service ports.CallbackService
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(service ports.CallbackService) *CallbackHandler {
	return &CallbackHandler{
		service: service,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Code identifies the error kind.
	Code string `json:"code"`
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// HandleCallback godoc
// @Summary Payment callback
// @Description Advances the orders linked to a paid invoice from the configured status to the next one.
// @Description Responds "ok" once handled (regardless of how many orders changed) and "" while the callback is disabled.
// @Tags callback
// @Produce json
// @Param invoice_id query int true "Invoicing provider invoice ID" minimum(1)
// @Param secret_key query string true "Shared secret key"
// @Success 200 {string} string "ok"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /woo_superfaktura_callback/v1/callback [get]
func (h *CallbackHandler) HandleCallback(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	req, err := domain.NewRequest(c.Queries())
	if err != nil {
		var verr *domain.ValidationError
		code := CodeInternal
		if errors.As(err, &verr) {
			code = CodeInvalidParam
			if len(verr.Missing) > 0 {
				code = CodeMissingParam
			}
		}
		metrics.Callbacks.WithLabelValues("invalid_param").Inc()
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    code,
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	outcome, err := h.service.Handle(c.UserContext(), req)
	if err != nil {
		return h.renderError(c, err, req, rayID)
	}

	if outcome == domain.OutcomeDisabled {
		metrics.Callbacks.WithLabelValues("disabled").Inc()
	} else {
		metrics.Callbacks.WithLabelValues("ok").Inc()
	}

	return c.Status(http.StatusOK).JSON(string(outcome))
}

// renderError maps service errors to status codes and logs them.
func (h *CallbackHandler) renderError(c *fiber.Ctx, err error, req domain.Request, rayID string) error {
	fields := []zap.Field{
		zap.Int64("invoice_id", int64(req.InvoiceID)),
		zap.String("ray_id", rayID),
		zap.Error(err),
	}

	status := http.StatusInternalServerError
	resp := ErrorResponse{Code: CodeInternal, Message: "Internal Server Error", RayID: rayID}
	outcome := "internal_error"

	switch {
	case errors.Is(err, domain.ErrInvalidSecretKey):
		status = http.StatusForbidden
		resp.Code = CodeInvalidSecretKey
		resp.Message = "Invalid secret key"
		outcome = CodeInvalidSecretKey
		logger.Get().Warn("Callback rejected", append(fields, zap.String("code", CodeInvalidSecretKey), zap.String("ip", c.IP()))...)
	case errors.Is(err, domain.ErrOrderLookup):
		resp.Code = CodeLookupFailed
		resp.Message = "Failed to look up orders"
		outcome = "lookup_failed"
		logger.Get().Error("Callback failed", append(fields, zap.String("code", CodeLookupFailed))...)
	case errors.Is(err, domain.ErrOrderUpdate):
		resp.Code = CodeUpdateFailed
		resp.Message = "Failed to update one or more orders"
		outcome = "update_failed"
		logger.Get().Error("Callback failed", append(fields, zap.String("code", CodeUpdateFailed))...)
	default:
		logger.Get().Error("Callback failed", fields...)
	}

	metrics.Callbacks.WithLabelValues(outcome).Inc()
	return c.Status(status).JSON(resp)
}
