package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/config"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/database"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/kafka"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/logger"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/redisclient"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// The consumer binary runs the asynchronous side of the core: notification
// delivery for note/payment events and the MFN term-propagation worker.
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

	noteRepo := repositories.NewSafeNoteRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	userRepo := repositories.NewUserRepository(db)
	termsService := services.NewTermsService(noteRepo, termsCache)

	notifier := NewNotifier(userRepo, companyRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	noteConsumer := kafka.NewConsumer(cfg.KafkaBrokers, "safe-notifier", events.NoteActivityTopic)
	defer noteConsumer.Close()
	noteConsumer.RegisterHandler(events.NoteCreated, notifier.HandleNoteEvent)
	noteConsumer.RegisterHandler(events.NoteSigned, notifier.HandleNoteEvent)
	noteConsumer.RegisterHandler(events.NoteDeclined, notifier.HandleNoteEvent)
	noteConsumer.RegisterHandler(events.NoteDeleted, notifier.HandleNoteEvent)
	noteConsumer.RegisterHandler(events.TermSheetCreated, notifier.HandleNoteEvent)

	paymentConsumer := kafka.NewConsumer(cfg.KafkaBrokers, "safe-notifier", events.PaymentActivityTopic)
	defer paymentConsumer.Close()
	paymentConsumer.RegisterHandler(events.PaymentPending, notifier.HandlePaymentEvent)
	paymentConsumer.RegisterHandler(events.PaymentSucceeded, notifier.HandlePaymentEvent)
	paymentConsumer.RegisterHandler(events.PaymentFailed, notifier.HandlePaymentEvent)
	paymentConsumer.RegisterHandler(events.FundsReceived, notifier.HandlePaymentEvent)

	termsWorker := NewTermsWorker(termsService)
	termConsumer := kafka.NewConsumer(cfg.KafkaBrokers, "safe-terms-worker", events.TermChangesTopic)
	defer termConsumer.Close()
	termConsumer.RegisterHandler(events.TermsChanged, termsWorker.HandleTermEvent)

	go noteConsumer.Start(ctx)
	go paymentConsumer.Start(ctx)
	go termConsumer.Start(ctx)

	<-ctx.Done()
	log.Println("Shutting down consumers")
}
