package routes

import (
	"pagamentos_xpto/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathWebhooks = "/webhooks"
	PathJobs     = "/jobs"
)

func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler, dispatchHandler *handlers.EmailDispatchHandler) {
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/payments", webhookHandler.HandleProviderWebhook)
	}

	jobs := rg.Group(PathJobs)
	{
		// Disparado por scheduler externo (EventBridge); sem estado entre execuções.
		jobs.POST("/email-queue", dispatchHandler.ProcessEmailQueue)
	}
}
