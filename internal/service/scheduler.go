package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/usecase"
	"github.com/timsabitov/kniga-bratan-bot/internal/conf"
)

// DailyScheduler runs the once-a-day jobs: the midnight winner reset
// and the birthday scan shortly after it.
type DailyScheduler struct {
	birthdays *usecase.BirthdayUsecase
	board     *domain.WinnerBoard
	gateway   repo.ChatGateway
	texts     *conf.Texts

	now     func() time.Time
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewDailyScheduler creates a new daily scheduler.
func NewDailyScheduler(birthdays *usecase.BirthdayUsecase, board *domain.WinnerBoard, gateway repo.ChatGateway, texts *conf.Texts) *DailyScheduler {
	return &DailyScheduler{
		birthdays: birthdays,
		board:     board,
		gateway:   gateway,
		texts:     texts,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler loop.
func (s *DailyScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	fmt.Println("[Scheduler] Started")
}

// Stop stops the scheduler loop and waits for it to finish.
func (s *DailyScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	fmt.Println("[Scheduler] Stopped")
}

func (s *DailyScheduler) loop() {
	defer s.wg.Done()

	resetTimer := time.NewTimer(time.Until(nextRun(s.now(), 0, 0)))
	defer resetTimer.Stop()
	scanTimer := time.NewTimer(time.Until(nextRun(s.now(), 0, 1)))
	defer scanTimer.Stop()

	for {
		select {
		case <-resetTimer.C:
			s.runMidnightReset()
			resetTimer.Reset(time.Until(nextRun(s.now(), 0, 0)))
		case <-scanTimer.C:
			s.runBirthdayScan(context.Background(), s.now())
			scanTimer.Reset(time.Until(nextRun(s.now(), 0, 1)))
		case <-s.stopCh:
			return
		}
	}
}

// runMidnightReset clears every chat's daily winner so the first
// request of the new day picks a fresh one.
func (s *DailyScheduler) runMidnightReset() {
	s.board.ResetAll()
	fmt.Println("[Scheduler] Daily winners reset")
}

// runBirthdayScan congratulates everyone whose birthday is today.
// One failed chat must not silence the rest.
func (s *DailyScheduler) runBirthdayScan(ctx context.Context, day time.Time) {
	due, err := s.birthdays.DueOn(ctx, day)
	if err != nil {
		fmt.Printf("[Scheduler] Error scanning birthdays: %v\n", err)
		return
	}

	for _, b := range due {
		toast := s.pickToast(b.Username)
		if err := s.gateway.SendText(ctx, b.ChatID, toast); err != nil {
			fmt.Printf("[Scheduler] Error congratulating @%s in %d: %v\n", b.Username, b.ChatID, err)
			continue
		}
		fmt.Printf("[Scheduler] Congratulated @%s in %d\n", b.Username, b.ChatID)
	}
}

func (s *DailyScheduler) pickToast(username string) string {
	if len(s.texts.BirthdayToasts) == 0 {
		return fmt.Sprintf("С днём рождения, @%s! 🎉", username)
	}
	template := s.texts.BirthdayToasts[rand.Intn(len(s.texts.BirthdayToasts))]
	return conf.FormatToast(template, username)
}

// nextRun returns the next wall-clock occurrence of hh:mm after now.
func nextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
