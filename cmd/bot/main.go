package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/usecase"
	"github.com/timsabitov/kniga-bratan-bot/internal/conf"
	"github.com/timsabitov/kniga-bratan-bot/internal/data"
	"github.com/timsabitov/kniga-bratan-bot/internal/infra/telegram"
	"github.com/timsabitov/kniga-bratan-bot/internal/server"
	"github.com/timsabitov/kniga-bratan-bot/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	texts, err := conf.LoadTexts(cfg.TextsPath)
	if err != nil {
		log.Fatalf("Failed to load texts: %v", err)
	}

	// Initialize storage
	db, err := data.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	repos := data.NewRepositories(db)
	fmt.Printf("[Bot] Database: %s\n", cfg.DBPath)

	// Initialize Telegram client
	client, err := telegram.NewClient(cfg.BotToken, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to start Telegram client: %v", err)
	}

	// Initialize usecase layer. The winner board is shared between the
	// message path and the midnight reset.
	board := domain.NewWinnerBoard()
	triggerUC := usecase.NewTriggerUsecase(repos.Trigger)
	birthdayUC := usecase.NewBirthdayUsecase(repos.Birthday)
	activityUC := usecase.NewActivityUsecase(repos.Activity)
	winnerUC := usecase.NewWinnerUsecase(client, board)
	quoteUC := usecase.NewQuoteUsecase(texts.Quotes)

	// Initialize service layer
	bot := service.NewBotService(triggerUC, birthdayUC, activityUC, winnerUC, quoteUC, client, texts)
	scheduler := service.NewDailyScheduler(birthdayUC, board, client, texts)

	// Initialize server
	srv := server.NewTelegramServer(client, bot)
	srv.Start()
	scheduler.Start()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	scheduler.Stop()
	srv.Stop()
}
