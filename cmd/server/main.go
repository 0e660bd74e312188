package main

import (
	"log"
	"net/http"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/config"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/database"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/handlers"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/kafka"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/middleware"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/models"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/payments"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/router"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/storage"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/logger"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/redisclient"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.InitLogger()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	termsCache := redisclient.NewTermsCache(redisClient)

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	userRepo := repositories.NewUserRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	noteRepo := repositories.NewSafeNoteRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	termSheetRepo := repositories.NewTermSheetRepository(db)

	files := storage.NewLocalFileStorage(cfg.StorageDir, cfg.StorageBaseURL)

	plaidClient := payments.NewPlaidClient(cfg.PlaidBaseURL, cfg.PlaidClientID, cfg.PlaidSecret)
	providers := map[models.PaymentProvider]payments.Provider{
		models.ProviderStripe:  payments.NewStripeClient(cfg.StripeSecretKey),
		models.ProviderPlaid:   plaidClient,
		models.ProviderReceipt: payments.NewReceiptProvider(),
	}

	authService := services.NewAuthService(db, userRepo)
	noteService := services.NewSafeNoteService(db, noteRepo, userRepo, companyRepo, termSheetRepo, files, producer)
	paymentService := services.NewPaymentService(db, noteRepo, paymentRepo, userRepo, providers, producer)
	termsService := services.NewTermsService(noteRepo, termsCache)
	termSheetService := services.NewTermSheetService(db, termSheetRepo, userRepo, companyRepo, files, producer)

	r := gin.Default()

	p := ginprometheus.NewPrometheus("gin")
	p.Use(r)

	r.Use(middleware.RequestLogger(logger.Log))

	router.Register(r,
		userRepo,
		handlers.NewAuthHandler(authService),
		handlers.NewSafeNoteHandler(noteService, termsService),
		handlers.NewPaymentHandler(paymentService),
		handlers.NewTermSheetHandler(termSheetService),
		handlers.NewWebhookHandler(paymentService, plaidClient),
	)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
