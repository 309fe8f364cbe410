package usecase

import (
	"context"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// BirthdayUsecase handles birthday registration and the daily scan.
type BirthdayUsecase struct {
	repo repo.BirthdayRepo
}

// NewBirthdayUsecase creates a new birthday usecase.
func NewBirthdayUsecase(r repo.BirthdayRepo) *BirthdayUsecase {
	return &BirthdayUsecase{repo: r}
}

// Set stores or overwrites the user's birthday in the chat, refreshing
// the stored username. Returns true when an existing row was updated.
func (uc *BirthdayUsecase) Set(ctx context.Context, chatID int64, userID int, username string, date time.Time) (bool, error) {
	existing, err := uc.repo.Get(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	birthday := &domain.Birthday{
		ChatID:   chatID,
		UserID:   userID,
		Username: username,
		Date:     date,
	}
	if err := uc.repo.Save(ctx, birthday); err != nil {
		return false, err
	}
	return existing != nil, nil
}

// DueOn returns everyone whose birthday falls on the given day,
// across all chats.
func (uc *BirthdayUsecase) DueOn(ctx context.Context, day time.Time) ([]*domain.Birthday, error) {
	return uc.repo.DueOn(ctx, day.Month(), day.Day())
}
