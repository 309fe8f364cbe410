package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// ErrNoAdministrators is returned when the gateway reports an empty
// administrator list for the chat.
var ErrNoAdministrators = errors.New("chat has no administrators")

// WinnerUsecase picks the chat's daily winner among its
// administrators. One pick per chat per calendar day; the pick lives
// on the in-memory board until the midnight reset.
type WinnerUsecase struct {
	gateway repo.ChatGateway
	board   *domain.WinnerBoard
}

// NewWinnerUsecase creates a new winner usecase.
func NewWinnerUsecase(gateway repo.ChatGateway, board *domain.WinnerBoard) *WinnerUsecase {
	return &WinnerUsecase{gateway: gateway, board: board}
}

// Pick returns today's winner for the chat, choosing one uniformly at
// random from the administrator list on the first call of the day.
// Nothing is cached when the administrator list is empty.
func (uc *WinnerUsecase) Pick(ctx context.Context, chatID int64, now time.Time) (*domain.DailyWinner, error) {
	today := domain.DateOf(now)
	if w := uc.board.For(chatID, today); w != nil {
		return w, nil
	}

	admins, err := uc.gateway.ChatAdministrators(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, ErrNoAdministrators
	}

	chosen := admins[rand.Intn(len(admins))]
	winner := &domain.DailyWinner{
		UserID:   chosen.UserID,
		Username: chosen.Name,
		Date:     today,
	}
	uc.board.Put(chatID, winner)
	return winner, nil
}
