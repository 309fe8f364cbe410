package usecase

import (
	"context"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// TopTalker is the day's most active poster.
type TopTalker struct {
	UserID     int
	TodayWords int
	TotalWords int
}

// ActivityUsecase tracks per-day word counts and ranks them.
// One counter per (chat, user, day); a message adds its
// whitespace-delimited word count.
type ActivityUsecase struct {
	repo repo.ActivityRepo
}

// NewActivityUsecase creates a new activity usecase.
func NewActivityUsecase(r repo.ActivityRepo) *ActivityUsecase {
	return &ActivityUsecase{repo: r}
}

// Record counts one non-command message toward today's activity.
// Bot-authored and empty messages add nothing.
func (uc *ActivityUsecase) Record(ctx context.Context, chatID int64, userID int, text string, now time.Time) error {
	words := domain.CountWords(text)
	if words == 0 {
		return nil
	}
	return uc.repo.Add(ctx, chatID, userID, domain.DateOf(now), words)
}

// Top returns the chat's top talker for the day, with the user's
// all-time word total, or nil when nobody talked.
func (uc *ActivityUsecase) Top(ctx context.Context, chatID int64, now time.Time) (*TopTalker, error) {
	top, err := uc.repo.TopForDate(ctx, chatID, domain.DateOf(now))
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, nil
	}
	total, err := uc.repo.TotalFor(ctx, chatID, top.UserID)
	if err != nil {
		return nil, err
	}
	return &TopTalker{
		UserID:     top.UserID,
		TodayWords: top.WordCount,
		TotalWords: total,
	}, nil
}
