package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// Validation failures surfaced to the user as replies.
var (
	ErrEmptyKeyword    = errors.New("trigger keyword is empty")
	ErrKeywordTooLong  = errors.New("trigger keyword is too long")
	ErrReservedKeyword = errors.New("trigger keyword is reserved")
)

// TriggerUsecase handles trigger CRUD and keyword resolution. It owns
// a per-chat read-through cache over the trigger table; the cache is
// reloaded after every write, so within this process it always agrees
// with the store.
type TriggerUsecase struct {
	repo repo.TriggerRepo

	mu    sync.Mutex
	cache map[int64]map[string]*domain.Trigger
}

// NewTriggerUsecase creates a new trigger usecase.
func NewTriggerUsecase(r repo.TriggerRepo) *TriggerUsecase {
	return &TriggerUsecase{
		repo:  r,
		cache: make(map[int64]map[string]*domain.Trigger),
	}
}

// Add creates a trigger or appends one payload to an existing one.
// Returns true when a new trigger was created.
func (uc *TriggerUsecase) Add(ctx context.Context, chatID int64, keyword string, kind domain.MediaKind, payload, contributor string) (bool, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false, ErrEmptyKeyword
	}
	if !domain.ValidKeywordLen(keyword) {
		return false, ErrKeywordTooLong
	}
	if domain.IsReservedKeyword(keyword) {
		return false, ErrReservedKeyword
	}

	key := strings.ToLower(keyword)
	existing, err := uc.repo.Get(ctx, chatID, key)
	if err != nil {
		return false, err
	}

	created := existing == nil
	if created {
		existing = domain.NewTrigger(chatID, key, kind, payload, contributor)
	} else {
		existing.Append(payload, contributor)
	}
	if err := uc.repo.Save(ctx, existing); err != nil {
		return false, err
	}

	if err := uc.reload(ctx, chatID); err != nil {
		return created, err
	}
	return created, nil
}

// Delete removes the trigger for (chat, keyword). Deleting an absent
// keyword is a no-op.
func (uc *TriggerUsecase) Delete(ctx context.Context, chatID int64, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}
	if err := uc.repo.Delete(ctx, chatID, strings.ToLower(keyword)); err != nil {
		return err
	}
	return uc.reload(ctx, chatID)
}

// List returns all triggers of the chat.
func (uc *TriggerUsecase) List(ctx context.Context, chatID int64) ([]*domain.Trigger, error) {
	return uc.repo.ListByChat(ctx, chatID)
}

// Resolve looks a lowercased message text up as a trigger keyword.
// Returns nil when nothing matches; that is the common case, since
// every ordinary chat line passes through here.
func (uc *TriggerUsecase) Resolve(ctx context.Context, chatID int64, keyword string) (*domain.Trigger, error) {
	uc.mu.Lock()
	chatCache, loaded := uc.cache[chatID]
	uc.mu.Unlock()

	if !loaded {
		if err := uc.reload(ctx, chatID); err != nil {
			return nil, err
		}
		uc.mu.Lock()
		chatCache = uc.cache[chatID]
		uc.mu.Unlock()
	}

	return chatCache[strings.ToLower(keyword)], nil
}

// reload refreshes one chat's cache from the store.
func (uc *TriggerUsecase) reload(ctx context.Context, chatID int64) error {
	triggers, err := uc.repo.ListByChat(ctx, chatID)
	if err != nil {
		return err
	}
	chatCache := make(map[string]*domain.Trigger, len(triggers))
	for _, t := range triggers {
		chatCache[t.Keyword] = t
	}
	uc.mu.Lock()
	uc.cache[chatID] = chatCache
	uc.mu.Unlock()
	return nil
}
