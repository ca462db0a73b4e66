package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finquest/internal/handlers"
	"finquest/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	transactionHandler *handlers.TransactionHandler,
	reportHandler *handlers.ReportHandler,
	jwtSecret []byte,
) *gin.Engine {

	// ---- public
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "FinQuest Backend API is running!"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/resend-otp", authHandler.ResendOTP)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// ---- protected
	protected := r.Group("/", middleware.AuthMiddleware(jwtSecret))

	transactions := protected.Group("/transactions")
	{
		transactions.POST("", transactionHandler.Create)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/:id", transactionHandler.GetByID)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/statement", reportHandler.GetStatement)
	}

	return r
}
