package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "finquest/docs"
	"finquest/internal/config"
	"finquest/internal/handlers"
	"finquest/internal/pdf"
	"finquest/internal/repositories"
	"finquest/internal/routes"
	"finquest/internal/services"
	"finquest/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// SMS provider (Twilio) from config
	twilioClient := utils.NewClient(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber,
		cfg.Twilio.DryRun,
	)

	userService := services.NewUserService(userRepo, emailService, authService)
	otpService := services.NewOTPService(otpRepo, userRepo, twilioClient, emailService, authService, authService, cfg.OTPTTL())
	transactionService := services.NewTransactionService(transactionRepo)

	statementGen := pdf.NewStatementGenerator(cfg.Files.RootDir)
	reportService := services.NewReportService(transactionRepo, userRepo, statementGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, otpService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Housekeeping: best-effort purge of expired codes ===
	purgeEvery := time.Duration(cfg.OTP.PurgeIntervalMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(purgeEvery)
		defer ticker.Stop()
		for range ticker.C {
			_ = otpService.PurgeExpired() // failures already logged, never fatal
		}
	}()

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		transactionHandler,
		reportHandler,
		[]byte(cfg.JWT.Secret),
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
