package routes

import (
	"context"
	"log"
	"os"
	"strconv"

	_ "pagamentos_xpto/docs" // This will be auto-generated
	"pagamentos_xpto/internal/adapter/http/handlers"
	repository2 "pagamentos_xpto/internal/adapter/persistence/repository"
	"pagamentos_xpto/internal/infrastructure/database"
	"pagamentos_xpto/internal/infrastructure/email"
	"pagamentos_xpto/internal/infrastructure/payments"
	"pagamentos_xpto/internal/usecase"
	"pagamentos_xpto/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	transactionRepo := repository2.NewPaymentTransactionDynamoRepository(ddb)
	invoiceRepo := repository2.NewInvoiceDynamoRepository(ddb)
	queueRepo := repository2.NewEmailQueueDynamoRepository(ddb)

	var verifier interfaces.IWebhookVerifier
	hmacVerifier, err := payments.NewHMACWebhookVerifier(os.Getenv("WEBHOOK_SECRET"))
	if err != nil {
		log.Printf("Webhook verifier not configured: %v", err)
	} else {
		verifier = hmacVerifier
	}

	var sender interfaces.IEmailSender
	sesSender, err := email.NewSESEmailSender(context.Background())
	if err != nil {
		log.Printf("SES email sender not configured: %v", err)
	} else {
		sender = sesSender
	}

	webhookUseCase := usecase.NewPaymentWebhookUseCase(transactionRepo, invoiceRepo)
	dispatchUseCase := usecase.NewEmailDispatchUseCase(queueRepo, sender)

	webhookHandler := handlers.NewWebhookHandler(verifier, webhookUseCase)
	dispatchHandler := handlers.NewEmailDispatchHandler(dispatchUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addWebhookRoutes(v1, webhookHandler, dispatchHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
