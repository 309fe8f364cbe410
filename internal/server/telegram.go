package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/timsabitov/kniga-bratan-bot/internal/infra/telegram"
	"github.com/timsabitov/kniga-bratan-bot/internal/service"
)

// TelegramServer consumes the update stream and feeds each group
// message into the bot service. It owns the consumer goroutine; the
// client owns the polling one.
type TelegramServer struct {
	client *telegram.Client
	bot    *service.BotService

	wg sync.WaitGroup
}

// NewTelegramServer creates a new Telegram server.
func NewTelegramServer(client *telegram.Client, bot *service.BotService) *TelegramServer {
	return &TelegramServer{client: client, bot: bot}
}

// Start starts consuming updates. Returns immediately; the update
// loop runs until Stop.
func (s *TelegramServer) Start() {
	updates := s.client.Updates()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for update := range updates {
			msg := telegram.MessageFromUpdate(update)
			if msg == nil {
				continue
			}
			s.bot.HandleMessage(context.Background(), msg)
		}
	}()
	fmt.Println("[Server] Started")
}

// Stop stops the client's polling and waits for the consumer to drain.
func (s *TelegramServer) Stop() {
	s.client.Stop()
	s.wg.Wait()
	fmt.Println("[Server] Stopped")
}
