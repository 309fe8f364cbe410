package domain

import "sync"

// DailyWinner is the once-per-day random pick among a chat's
// administrators. Lives only in process memory.
type DailyWinner struct {
	UserID   int
	Username string
	Date     string // DateLayout, the day the pick is valid for
}

// WinnerBoard holds at most one DailyWinner per chat. The board is
// shared between the message path and the midnight reset job, so
// access is mutex-guarded.
type WinnerBoard struct {
	mu      sync.Mutex
	winners map[int64]*DailyWinner
}

// NewWinnerBoard creates an empty board.
func NewWinnerBoard() *WinnerBoard {
	return &WinnerBoard{winners: make(map[int64]*DailyWinner)}
}

// For returns the chat's winner if one is cached for the given date.
// An entry for another date is treated as absent; the midnight reset
// normally clears entries, this guards against a missed reset.
func (b *WinnerBoard) For(chatID int64, date string) *DailyWinner {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.winners[chatID]
	if !ok || w.Date != date {
		return nil
	}
	return w
}

// Put caches the chat's winner.
func (b *WinnerBoard) Put(chatID int64, w *DailyWinner) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.winners[chatID] = w
}

// Reset drops one chat's winner.
func (b *WinnerBoard) Reset(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.winners, chatID)
}

// ResetAll drops every cached winner. Runs at local midnight.
func (b *WinnerBoard) ResetAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.winners = make(map[int64]*DailyWinner)
}
