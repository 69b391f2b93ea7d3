package handlers

import (
	"errors"
	"log"
	"net/http"

	response "pagamentos_xpto/internal/adapter/http/dto/response"
	"pagamentos_xpto/internal/infrastructure/payments"
	"pagamentos_xpto/internal/usecase"
	"pagamentos_xpto/internal/usecase/interfaces"
	"pagamentos_xpto/pkg"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the provider's hex HMAC over the raw request body.
const SignatureHeader = "X-Signature"

// WebhookHandler receives provider payment events. Verification failures are
// the only 4xx path; once an event is authenticated the delivery is always
// acknowledged, whatever the handlers did with it.

type WebhookHandler struct {
	verifier interfaces.IWebhookVerifier
	usecase  usecase.IPaymentWebhookUseCase
}

func NewWebhookHandler(verifier interfaces.IWebhookVerifier, uc usecase.IPaymentWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, usecase: uc}
}

// HandleProviderWebhook verifies and dispatches one provider event.
func (h *WebhookHandler) HandleProviderWebhook(c *gin.Context) {
	if h.verifier == nil {
		log.Printf("[webhook][handler] verifier not configured")
		appErr := pkg.NewDomainErrorSimple("WEBHOOK_NOT_CONFIGURED", "Webhook verification is not configured", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	// The signature covers the exact bytes on the wire; read them before any
	// JSON machinery touches the body.
	raw, err := c.GetRawData()
	if err != nil {
		log.Printf("[webhook][handler] body read failed err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	event, err := h.verifier.VerifyAndParse(raw, c.GetHeader(SignatureHeader))
	if err != nil {
		log.Printf("[webhook][handler] verification failed err=%v", err)
		appErr := mapWebhookVerificationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if err := h.usecase.ProcessEvent(c.Request.Context(), event); err != nil {
		// Authenticated deliveries are acknowledged even when processing
		// stumbled; the provider must not retry against internal errors.
		log.Printf("[webhook][handler] processing error swallowed type=%s err=%v", event.Type, err)
	}
	log.Printf("[webhook][handler] event acknowledged type=%s", event.Type)

	c.JSON(http.StatusOK, response.WebhookAck{Received: true})
}

func mapWebhookVerificationError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, payments.ErrMissingSignature):
		return pkg.NewDomainErrorSimple("MISSING_SIGNATURE", "Missing webhook signature", http.StatusBadRequest)
	case errors.Is(err, payments.ErrInvalidSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid webhook signature", http.StatusBadRequest)
	case errors.Is(err, payments.ErrInvalidWebhookPayload):
		return pkg.NewDomainErrorSimple("INVALID_PAYLOAD", "Invalid webhook payload", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("VERIFICATION_FAILED", "Webhook verification failed", err, http.StatusBadRequest)
	}
}
