package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// Mock implementations shared by the usecase tests.

type mockTriggerRepo struct {
	triggers map[string]*domain.Trigger // "chatID/keyword"
	saves    int
}

func newMockTriggerRepo() *mockTriggerRepo {
	return &mockTriggerRepo{triggers: make(map[string]*domain.Trigger)}
}

func triggerKey(chatID int64, keyword string) string {
	return fmt.Sprintf("%d/%s", chatID, strings.ToLower(keyword))
}

func (m *mockTriggerRepo) Get(ctx context.Context, chatID int64, keyword string) (*domain.Trigger, error) {
	return m.triggers[triggerKey(chatID, keyword)], nil
}

func (m *mockTriggerRepo) ListByChat(ctx context.Context, chatID int64) ([]*domain.Trigger, error) {
	var out []*domain.Trigger
	for _, t := range m.triggers {
		if t.ChatID == chatID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keyword < out[j].Keyword })
	return out, nil
}

func (m *mockTriggerRepo) Save(ctx context.Context, trigger *domain.Trigger) error {
	m.saves++
	// Re-encode through the storage form so tests see what a reader
	// would get back from the table.
	copied := *trigger
	copied.Responses = domain.DecodeStringList(trigger.Responses.EncodeJSON())
	copied.AddedBy = domain.DecodeStringList(trigger.AddedBy.EncodeJSON())
	m.triggers[triggerKey(trigger.ChatID, trigger.Keyword)] = &copied
	return nil
}

func (m *mockTriggerRepo) Delete(ctx context.Context, chatID int64, keyword string) error {
	delete(m.triggers, triggerKey(chatID, keyword))
	return nil
}

type mockBirthdayRepo struct {
	birthdays map[string]*domain.Birthday // "chatID/userID"
}

func newMockBirthdayRepo() *mockBirthdayRepo {
	return &mockBirthdayRepo{birthdays: make(map[string]*domain.Birthday)}
}

func birthdayKey(chatID int64, userID int) string {
	return fmt.Sprintf("%d/%d", chatID, userID)
}

func (m *mockBirthdayRepo) Get(ctx context.Context, chatID int64, userID int) (*domain.Birthday, error) {
	return m.birthdays[birthdayKey(chatID, userID)], nil
}

func (m *mockBirthdayRepo) Save(ctx context.Context, b *domain.Birthday) error {
	copied := *b
	m.birthdays[birthdayKey(b.ChatID, b.UserID)] = &copied
	return nil
}

func (m *mockBirthdayRepo) DueOn(ctx context.Context, month time.Month, day int) ([]*domain.Birthday, error) {
	var out []*domain.Birthday
	for _, b := range m.birthdays {
		if b.IsOn(month, day) {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockActivityRepo struct {
	rows []*domain.Activity
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) Add(ctx context.Context, chatID int64, userID int, date string, words int) error {
	for _, r := range m.rows {
		if r.ChatID == chatID && r.UserID == userID && r.Date == date {
			r.WordCount += words
			return nil
		}
	}
	m.rows = append(m.rows, &domain.Activity{ChatID: chatID, UserID: userID, Date: date, WordCount: words})
	return nil
}

func (m *mockActivityRepo) TopForDate(ctx context.Context, chatID int64, date string) (*domain.Activity, error) {
	var top *domain.Activity
	for _, r := range m.rows {
		if r.ChatID != chatID || r.Date != date {
			continue
		}
		if top == nil || r.WordCount > top.WordCount || (r.WordCount == top.WordCount && r.UserID < top.UserID) {
			top = r
		}
	}
	return top, nil
}

func (m *mockActivityRepo) TotalFor(ctx context.Context, chatID int64, userID int) (int, error) {
	total := 0
	for _, r := range m.rows {
		if r.ChatID == chatID && r.UserID == userID {
			total += r.WordCount
		}
	}
	return total, nil
}

type mockGateway struct {
	admins     map[int64][]domain.Member
	members    map[string]*domain.Member // "chatID/userID"
	adminErr   error
	sentTexts  []string
	sentMedia  []string
	sendErrs   int // fail this many sends, then succeed
	failedOnce int
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		admins:  make(map[int64][]domain.Member),
		members: make(map[string]*domain.Member),
	}
}

func (m *mockGateway) SendText(ctx context.Context, chatID int64, text string) error {
	if m.failedOnce < m.sendErrs {
		m.failedOnce++
		return fmt.Errorf("send failed")
	}
	m.sentTexts = append(m.sentTexts, text)
	return nil
}

func (m *mockGateway) SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, fileID string) error {
	if m.failedOnce < m.sendErrs {
		m.failedOnce++
		return fmt.Errorf("send failed")
	}
	m.sentMedia = append(m.sentMedia, string(kind)+":"+fileID)
	return nil
}

func (m *mockGateway) ChatAdministrators(ctx context.Context, chatID int64) ([]domain.Member, error) {
	if m.adminErr != nil {
		return nil, m.adminErr
	}
	return m.admins[chatID], nil
}

func (m *mockGateway) ChatMember(ctx context.Context, chatID int64, userID int) (*domain.Member, error) {
	member := m.members[fmt.Sprintf("%d/%d", chatID, userID)]
	if member == nil {
		return nil, fmt.Errorf("member %d not found", userID)
	}
	return member, nil
}

func (m *mockGateway) IsAdmin(ctx context.Context, chatID int64, userID int) (bool, error) {
	for _, a := range m.admins[chatID] {
		if a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
