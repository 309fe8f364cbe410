package repo

import (
	"context"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// ActivityRepo is the activity repository interface.
type ActivityRepo interface {
	// Add increments the (chat, user, date) counter by words, creating
	// the row on first use. The upsert is a single statement, so two
	// first messages of the day cannot produce two rows.
	Add(ctx context.Context, chatID int64, userID int, date string, words int) error

	// TopForDate returns the chat's highest counter for the date, or
	// nil if nobody talked. Ties break toward the lowest user id.
	TopForDate(ctx context.Context, chatID int64, date string) (*domain.Activity, error)

	// TotalFor returns the user's all-time word sum in the chat.
	TotalFor(ctx context.Context, chatID int64, userID int) (int, error)
}
