package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/usecase"
	"github.com/timsabitov/kniga-bratan-bot/internal/conf"
)

// Mock implementations

type memTriggerRepo struct {
	triggers map[string]*domain.Trigger
}

func (m *memTriggerRepo) key(chatID int64, keyword string) string {
	return fmt.Sprintf("%d/%s", chatID, strings.ToLower(keyword))
}

func (m *memTriggerRepo) Get(ctx context.Context, chatID int64, keyword string) (*domain.Trigger, error) {
	return m.triggers[m.key(chatID, keyword)], nil
}

func (m *memTriggerRepo) ListByChat(ctx context.Context, chatID int64) ([]*domain.Trigger, error) {
	var out []*domain.Trigger
	for _, t := range m.triggers {
		if t.ChatID == chatID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keyword < out[j].Keyword })
	return out, nil
}

func (m *memTriggerRepo) Save(ctx context.Context, t *domain.Trigger) error {
	m.triggers[m.key(t.ChatID, t.Keyword)] = t
	return nil
}

func (m *memTriggerRepo) Delete(ctx context.Context, chatID int64, keyword string) error {
	delete(m.triggers, m.key(chatID, keyword))
	return nil
}

type memBirthdayRepo struct {
	birthdays map[string]*domain.Birthday
}

func (m *memBirthdayRepo) key(chatID int64, userID int) string {
	return fmt.Sprintf("%d/%d", chatID, userID)
}

func (m *memBirthdayRepo) Get(ctx context.Context, chatID int64, userID int) (*domain.Birthday, error) {
	return m.birthdays[m.key(chatID, userID)], nil
}

func (m *memBirthdayRepo) Save(ctx context.Context, b *domain.Birthday) error {
	m.birthdays[m.key(b.ChatID, b.UserID)] = b
	return nil
}

func (m *memBirthdayRepo) DueOn(ctx context.Context, month time.Month, day int) ([]*domain.Birthday, error) {
	var out []*domain.Birthday
	for _, b := range m.birthdays {
		if b.IsOn(month, day) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memActivityRepo struct {
	rows []*domain.Activity
}

func (m *memActivityRepo) Add(ctx context.Context, chatID int64, userID int, date string, words int) error {
	for _, r := range m.rows {
		if r.ChatID == chatID && r.UserID == userID && r.Date == date {
			r.WordCount += words
			return nil
		}
	}
	m.rows = append(m.rows, &domain.Activity{ChatID: chatID, UserID: userID, Date: date, WordCount: words})
	return nil
}

func (m *memActivityRepo) TopForDate(ctx context.Context, chatID int64, date string) (*domain.Activity, error) {
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

func (m *memActivityRepo) TotalFor(ctx context.Context, chatID int64, userID int) (int, error) {
	total := 0
	for _, r := range m.rows {
		if r.ChatID == chatID && r.UserID == userID {
			total += r.WordCount
		}
	}
	return total, nil
}

type fakeGateway struct {
	admins   []domain.Member
	members  map[int]string
	sent     []string // "chat:kind:payload"
	failNext int
}

func (g *fakeGateway) record(chatID int64, kind, payload string) error {
	if g.failNext > 0 {
		g.failNext--
		return fmt.Errorf("gateway down")
	}
	g.sent = append(g.sent, fmt.Sprintf("%d:%s:%s", chatID, kind, payload))
	return nil
}

func (g *fakeGateway) SendText(ctx context.Context, chatID int64, text string) error {
	return g.record(chatID, "text", text)
}

func (g *fakeGateway) SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, fileID string) error {
	return g.record(chatID, string(kind), fileID)
}

func (g *fakeGateway) ChatAdministrators(ctx context.Context, chatID int64) ([]domain.Member, error) {
	return g.admins, nil
}

func (g *fakeGateway) ChatMember(ctx context.Context, chatID int64, userID int) (*domain.Member, error) {
	name, ok := g.members[userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %d", userID)
	}
	return &domain.Member{UserID: userID, Name: name}, nil
}

func (g *fakeGateway) IsAdmin(ctx context.Context, chatID int64, userID int) (bool, error) {
	for _, a := range g.admins {
		if a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGateway) lastSent(t *testing.T) string {
	t.Helper()
	if len(g.sent) == 0 {
		t.Fatal("Expected at least one outbound message")
	}
	return g.sent[len(g.sent)-1]
}

func newTestBot() (*BotService, *fakeGateway) {
	gateway := &fakeGateway{members: make(map[int]string)}
	bot := NewBotService(
		usecase.NewTriggerUsecase(&memTriggerRepo{triggers: make(map[string]*domain.Trigger)}),
		usecase.NewBirthdayUsecase(&memBirthdayRepo{birthdays: make(map[string]*domain.Birthday)}),
		usecase.NewActivityUsecase(&memActivityRepo{}),
		usecase.NewWinnerUsecase(gateway, domain.NewWinnerBoard()),
		usecase.NewQuoteUsecase([]string{"Мудрость дня."}),
		gateway,
		conf.DefaultTexts(),
	)
	bot.now = func() time.Time { return time.Date(2024, time.February, 3, 12, 0, 0, 0, time.UTC) }
	bot.pause = 0
	return bot, gateway
}

func adminMsg(text string) *domain.Message {
	return &domain.Message{
		ChatID: 10,
		Sender: domain.Sender{UserID: 1, Name: "A"},
		Text:   text,
	}
}

func userMsg(text string) *domain.Message {
	return &domain.Message{
		ChatID: 10,
		Sender: domain.Sender{UserID: 2, Name: "B"},
		Text:   text,
	}
}

// Tests

func TestBot_AddInvokeScenario(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	add := adminMsg("!add lol")
	add.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
	bot.HandleMessage(ctx, add)
	if got := gateway.lastSent(t); !strings.Contains(got, "Триггер 'lol' добавлен") {
		t.Errorf("Unexpected add reply: %q", got)
	}

	bot.HandleMessage(ctx, userMsg("LOL"))
	if got := gateway.lastSent(t); got != "10:text:haha" {
		t.Errorf("Expected trigger payload, got %q", got)
	}
}

func TestBot_AddDeniedForNonAdmin(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}

	add := userMsg("!add lol")
	add.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
	bot.HandleMessage(context.Background(), add)

	if got := gateway.lastSent(t); got != "10:text:"+replyAdminOnly {
		t.Errorf("Expected denial, got %q", got)
	}
}

func TestBot_AddRequiresReplyContext(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}

	bot.HandleMessage(context.Background(), adminMsg("!add lol"))

	if got := gateway.lastSent(t); got != "10:text:"+replyNeedReply {
		t.Errorf("Expected reply-context error, got %q", got)
	}
}

func TestBot_AddValidationReplies(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	cases := []struct {
		text string
		want string
	}{
		{"!add", replyNeedAddKey},
		{"!add !list", replyKeyReserved},
		{"!add болтун", replyKeyReserved},
		{"!add " + strings.Repeat("x", domain.MaxKeywordLen+1), replyKeyTooLong},
	}
	for _, c := range cases {
		msg := adminMsg(c.text)
		msg.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
		bot.HandleMessage(ctx, msg)
		if got := gateway.lastSent(t); got != "10:text:"+c.want {
			t.Errorf("%q: expected %q, got %q", c.text, c.want, got)
		}
	}
}

func TestBot_AppendedTriggerRepliesBothPayloads(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	first := adminMsg("!add lol")
	first.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
	bot.HandleMessage(ctx, first)

	second := adminMsg("!add lol")
	second.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "hehe"}
	bot.HandleMessage(ctx, second)
	if got := gateway.lastSent(t); !strings.Contains(got, "Новый ответ для триггера") {
		t.Errorf("Expected append reply, got %q", got)
	}

	gateway.sent = nil
	bot.HandleMessage(ctx, userMsg("lol"))
	if len(gateway.sent) != 2 || gateway.sent[0] != "10:text:haha" || gateway.sent[1] != "10:text:hehe" {
		t.Errorf("Expected both payloads in order, got %v", gateway.sent)
	}
}

func TestBot_InvokeSendFailureDoesNotAbortSequence(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	for _, payload := range []string{"one", "two"} {
		msg := adminMsg("!add lol")
		msg.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: payload}
		bot.HandleMessage(ctx, msg)
	}

	gateway.sent = nil
	gateway.failNext = 1 // first payload send fails
	bot.HandleMessage(ctx, userMsg("lol"))

	if len(gateway.sent) != 1 || gateway.sent[0] != "10:text:two" {
		t.Errorf("Expected remaining payload delivered, got %v", gateway.sent)
	}
}

func TestBot_InvokeMediaTrigger(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	msg := adminMsg("!add кот")
	msg.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaPhoto, Payload: "file-123"}
	bot.HandleMessage(ctx, msg)

	gateway.sent = nil
	bot.HandleMessage(ctx, userMsg("Кот"))
	if got := gateway.lastSent(t); got != "10:photo:file-123" {
		t.Errorf("Expected photo payload, got %q", got)
	}
}

func TestBot_DeleteTrigger(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	msg := adminMsg("!add lol")
	msg.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
	bot.HandleMessage(ctx, msg)

	bot.HandleMessage(ctx, adminMsg("!del lol"))
	if got := gateway.lastSent(t); !strings.Contains(got, "удалён") {
		t.Errorf("Expected delete confirmation, got %q", got)
	}

	gateway.sent = nil
	bot.HandleMessage(ctx, userMsg("lol"))
	// Deleted keyword is ordinary text again: no trigger reply.
	for _, sent := range gateway.sent {
		if strings.Contains(sent, "haha") {
			t.Errorf("Deleted trigger still fired: %v", gateway.sent)
		}
	}

	// Deleting again is a quiet no-op with the same confirmation.
	bot.HandleMessage(ctx, adminMsg("!del lol"))
	if got := gateway.lastSent(t); !strings.Contains(got, "удалён") {
		t.Errorf("Expected idempotent delete confirmation, got %q", got)
	}
}

func TestBot_ListTriggers(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}}
	ctx := context.Background()

	bot.HandleMessage(ctx, userMsg("!list"))
	if got := gateway.lastSent(t); got != "10:text:"+replyNoTriggers {
		t.Errorf("Expected empty-list reply, got %q", got)
	}

	msg := adminMsg("!add lol")
	msg.ReplyTo = &domain.ReplyMessage{Kind: domain.MediaText, Payload: "haha"}
	bot.HandleMessage(ctx, msg)

	bot.HandleMessage(ctx, userMsg("!list"))
	got := gateway.lastSent(t)
	if !strings.Contains(got, "1. lol (от: A)") {
		t.Errorf("Unexpected list: %q", got)
	}
}

func TestBot_BirthdaySetAndUpdateReplies(t *testing.T) {
	bot, gateway := newTestBot()
	ctx := context.Background()

	bot.HandleMessage(ctx, userMsg("!bd 05.04.1998"))
	if got := gateway.lastSent(t); !strings.Contains(got, "установлена для @B") {
		t.Errorf("Expected set confirmation, got %q", got)
	}

	bot.HandleMessage(ctx, userMsg("!bd 06.04.1998"))
	if got := gateway.lastSent(t); !strings.Contains(got, "обновлена для @B") {
		t.Errorf("Expected update confirmation, got %q", got)
	}
}

func TestBot_BirthdayFormatErrors(t *testing.T) {
	bot, gateway := newTestBot()
	ctx := context.Background()

	bot.HandleMessage(ctx, userMsg("!bd"))
	if got := gateway.lastSent(t); got != "10:text:"+replyBirthdayUsage {
		t.Errorf("Expected usage reply, got %q", got)
	}

	bot.HandleMessage(ctx, userMsg("!bd 32.13.1998"))
	if got := gateway.lastSent(t); got != "10:text:"+replyBirthdayBadDate {
		t.Errorf("Expected bad-date reply, got %q", got)
	}
}

func TestBot_TopTalker(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.members[2] = "B"
	ctx := context.Background()

	bot.HandleMessage(ctx, userMsg("!talker"))
	if got := gateway.lastSent(t); got != "10:text:"+replyNobodyTalked {
		t.Errorf("Expected nobody-talked reply, got %q", got)
	}

	bot.HandleMessage(ctx, userMsg("привет всем в чате"))
	bot.HandleMessage(ctx, userMsg("болтун"))
	got := gateway.lastSent(t)
	if !strings.Contains(got, "Болтун сегодня: @B") || !strings.Contains(got, "Слов за сегодня: 4") {
		t.Errorf("Unexpected talker reply: %q", got)
	}
}

func TestBot_ActivityIgnoresBotsAndCommands(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.members[2] = "B"
	ctx := context.Background()

	fromBot := userMsg("бип буп бип")
	fromBot.Sender.IsBot = true
	bot.HandleMessage(ctx, fromBot)
	bot.HandleMessage(ctx, userMsg("!help"))

	bot.HandleMessage(ctx, userMsg("!talker"))
	if got := gateway.lastSent(t); got != "10:text:"+replyNobodyTalked {
		t.Errorf("Bot and command messages must not count, got %q", got)
	}
}

func TestBot_DailyWinnerStableWithinDay(t *testing.T) {
	bot, gateway := newTestBot()
	gateway.admins = []domain.Member{{UserID: 1, Name: "A"}, {UserID: 3, Name: "C"}}
	ctx := context.Background()

	bot.HandleMessage(ctx, userMsg("красавчик"))
	first := gateway.lastSent(t)

	bot.HandleMessage(ctx, userMsg("кто красавчик сегодня"))
	if got := gateway.lastSent(t); got != first {
		t.Errorf("Winner changed within a day: %q vs %q", got, first)
	}
}

func TestBot_DailyWinnerNoAdmins(t *testing.T) {
	bot, gateway := newTestBot()

	bot.HandleMessage(context.Background(), userMsg("красавчик"))
	if got := gateway.lastSent(t); got != "10:text:"+replyNoAdministrators {
		t.Errorf("Expected admin-lookup failure reply, got %q", got)
	}
}

func TestBot_QuoteAddressesCaller(t *testing.T) {
	bot, gateway := newTestBot()

	bot.HandleMessage(context.Background(), userMsg("Книга братан"))
	got := gateway.lastSent(t)
	if !strings.Contains(got, "Мудрость дня.") || !strings.Contains(got, "@B") {
		t.Errorf("Unexpected quote reply: %q", got)
	}
}

func TestBot_Help(t *testing.T) {
	bot, gateway := newTestBot()

	bot.HandleMessage(context.Background(), userMsg("!help"))
	got := gateway.lastSent(t)
	if !strings.Contains(got, "Список команд") || !strings.Contains(got, "!bd") {
		t.Errorf("Unexpected help reply: %q", got)
	}
}

func TestBot_UnknownBangCommandSilent(t *testing.T) {
	bot, gateway := newTestBot()

	bot.HandleMessage(context.Background(), userMsg("!unknown"))
	if len(gateway.sent) != 0 {
		t.Errorf("Expected silence, got %v", gateway.sent)
	}
}
