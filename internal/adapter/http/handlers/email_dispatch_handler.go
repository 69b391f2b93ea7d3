package handlers

import (
	"log"
	"net/http"

	response "pagamentos_xpto/internal/adapter/http/dto/response"
	"pagamentos_xpto/internal/usecase"
	"pagamentos_xpto/pkg"

	"github.com/gin-gonic/gin"
)

// EmailDispatchHandler exposes the queue run to the external scheduler.
// Per-item failures come back as counts; only a store failure is a 5xx.

type EmailDispatchHandler struct {
	usecase usecase.IEmailDispatchUseCase
}

func NewEmailDispatchHandler(uc usecase.IEmailDispatchUseCase) *EmailDispatchHandler {
	return &EmailDispatchHandler{usecase: uc}
}

// ProcessEmailQueue runs one dispatch batch.
func (h *EmailDispatchHandler) ProcessEmailQueue(c *gin.Context) {
	log.Printf("[email][handler] dispatch run requested")

	result, err := h.usecase.ProcessQueue(c.Request.Context())
	if err != nil {
		log.Printf("[email][handler] dispatch run failed err=%v", err)
		appErr := pkg.NewDomainError("QUEUE_UNAVAILABLE", "Email queue could not be processed", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[email][handler] dispatch run success processed=%d sent=%d failed=%d", result.Processed, result.Sent, result.Failed)

	c.JSON(http.StatusOK, response.FromDispatchResult(result))
}
