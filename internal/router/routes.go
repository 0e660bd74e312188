package router

import (
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/handlers"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/middleware"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"

	"github.com/gin-gonic/gin"
)

// Register wires all routes onto the engine. Webhooks are unauthenticated;
// everything else sits behind the bearer-token middleware.
func Register(
	r *gin.Engine,
	users repositories.UserRepository,
	authHandler *handlers.AuthHandler,
	noteHandler *handlers.SafeNoteHandler,
	paymentHandler *handlers.PaymentHandler,
	termSheetHandler *handlers.TermSheetHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/stripe", webhookHandler.StripeWebhook)
		webhooks.POST("/plaid", webhookHandler.PlaidWebhook)
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(users))
	{
		protected.POST("/safe-notes", noteHandler.CreateSafeNote)
		protected.GET("/safe-notes/:noteId", noteHandler.GetSafeNote)
		protected.PUT("/safe-notes/:noteId", noteHandler.UpdateSafeNote)
		protected.DELETE("/safe-notes/:noteId", noteHandler.DeleteSafeNote)
		protected.POST("/safe-notes/:noteId/sign", noteHandler.SignSafeNote)
		protected.POST("/safe-notes/:noteId/decline", noteHandler.DeclineSafeNote)
		protected.POST("/safe-notes/:noteId/company", noteHandler.AssignCompany)
		protected.POST("/safe-notes/:noteId/payments", paymentHandler.ProcessPayment)

		protected.GET("/companies/:companyId/max-terms", noteHandler.GetMaxTerms)

		protected.POST("/term-sheets", termSheetHandler.CreateTermSheet)
		protected.GET("/term-sheets/:sheetId", termSheetHandler.GetTermSheet)
		protected.POST("/term-sheets/:sheetId/respond", termSheetHandler.RespondToTermSheet)
	}
}
