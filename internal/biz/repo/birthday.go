package repo

import (
	"context"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// BirthdayRepo is the birthday repository interface.
type BirthdayRepo interface {
	// Get returns the birthday for (chatID, userID), or nil if absent.
	Get(ctx context.Context, chatID int64, userID int) (*domain.Birthday, error)

	// Save creates or replaces the row for its (chat, user), refreshing
	// the stored username.
	Save(ctx context.Context, birthday *domain.Birthday) error

	// DueOn returns all rows across chats whose stored date matches the
	// given month and day, year ignored.
	DueOn(ctx context.Context, month time.Month, day int) ([]*domain.Birthday, error)
}
