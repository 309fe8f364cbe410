package repo

import (
	"context"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// TriggerRepo is the trigger repository interface.
// Responsible for trigger persistence (SQLite).
type TriggerRepo interface {
	// Get returns the trigger for (chatID, keyword), or nil if absent.
	Get(ctx context.Context, chatID int64, keyword string) (*domain.Trigger, error)

	// ListByChat returns all triggers of a chat in keyword order.
	ListByChat(ctx context.Context, chatID int64) ([]*domain.Trigger, error)

	// Save creates or replaces the trigger row for its (chat, keyword).
	Save(ctx context.Context, trigger *domain.Trigger) error

	// Delete removes the trigger row if present (no error when absent).
	Delete(ctx context.Context, chatID int64, keyword string) error
}
