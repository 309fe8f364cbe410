package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/usecase"
	"github.com/timsabitov/kniga-bratan-bot/internal/conf"
)

// Reply texts. User-visible strings stay in one place.
const (
	replyAdminOnly        = "❌ Только для админа! 🚫"
	replyNeedReply        = "❌ Ответьте на сообщение для добавления триггера! 🔔"
	replyNeedAddKey       = "❌ Укажите ключ триггера после !add!"
	replyNeedDelKey       = "❌ Укажите ключ триггера для удаления!"
	replyKeyTooLong       = "❌ Слишком длинное имя триггера! ⚠️"
	replyKeyReserved      = "❌ Нельзя использовать зарезервированное имя! 🚫"
	replyNoTriggers       = "В этом чате нет триггеров. 😔"
	replyBirthdayUsage    = "❌ Формат команды: !bd ДД.ММ.ГГГГ"
	replyBirthdayBadDate  = "❌ Неправильный формат даты. Используйте ДД.ММ.ГГГГ, например: !bd 05.04.1998"
	replyNobodyTalked     = "Сегодня никто не болтал. 🤐"
	replyTalkerFailed     = "Ошибка при получении статистики."
	replyNoAdministrators = "Не удалось определить администраторов. 🚫"
	replyGenericFailure   = "Что-то пошло не так, попробуйте ещё раз. 😵"
)

// stickerPause throttles multi-sticker trigger replies.
const stickerPause = 500 * time.Millisecond

// BotService turns routed commands into usecase calls and replies.
// One message is handled at a time; the scheduler shares only the
// winner board and the store with this path.
type BotService struct {
	triggers  *usecase.TriggerUsecase
	birthdays *usecase.BirthdayUsecase
	activity  *usecase.ActivityUsecase
	winner    *usecase.WinnerUsecase
	quotes    *usecase.QuoteUsecase
	gateway   repo.ChatGateway
	texts     *conf.Texts

	// now is replaceable in tests
	now func() time.Time
	// pause between sticker payloads, shrunk in tests
	pause time.Duration
}

// NewBotService creates the command dispatch service.
func NewBotService(
	triggers *usecase.TriggerUsecase,
	birthdays *usecase.BirthdayUsecase,
	activity *usecase.ActivityUsecase,
	winner *usecase.WinnerUsecase,
	quotes *usecase.QuoteUsecase,
	gateway repo.ChatGateway,
	texts *conf.Texts,
) *BotService {
	return &BotService{
		triggers:  triggers,
		birthdays: birthdays,
		activity:  activity,
		winner:    winner,
		quotes:    quotes,
		gateway:   gateway,
		texts:     texts,
		now:       time.Now,
		pause:     stickerPause,
	}
}

// HandleMessage routes one inbound message and executes its intents.
// Failures are logged and answered where a user action was in
// progress; nothing propagates past this call.
func (s *BotService) HandleMessage(ctx context.Context, msg *domain.Message) {
	for _, cmd := range Route(msg.Text) {
		switch cmd.Intent {
		case IntentAddTrigger:
			s.handleAddTrigger(ctx, msg, cmd.Arg)
		case IntentDeleteTrigger:
			s.handleDeleteTrigger(ctx, msg, cmd.Arg)
		case IntentListTriggers:
			s.handleListTriggers(ctx, msg)
		case IntentSetBirthday:
			s.handleSetBirthday(ctx, msg, cmd.Arg)
		case IntentHelp:
			s.reply(ctx, msg.ChatID, s.texts.Help)
		case IntentTopTalker:
			s.handleTopTalker(ctx, msg)
		case IntentQuote:
			s.reply(ctx, msg.ChatID, s.quotes.Random(msg.Sender.Name))
		case IntentDailyWinner:
			s.handleDailyWinner(ctx, msg)
		case IntentInvokeTrigger:
			s.handleInvokeTrigger(ctx, msg, cmd.Arg)
		case IntentRecordActivity:
			s.handleRecordActivity(ctx, msg)
		}
	}
}

func (s *BotService) handleAddTrigger(ctx context.Context, msg *domain.Message, keyword string) {
	if !s.callerIsAdmin(ctx, msg) {
		s.reply(ctx, msg.ChatID, replyAdminOnly)
		return
	}
	if msg.ReplyTo == nil {
		s.reply(ctx, msg.ChatID, replyNeedReply)
		return
	}

	created, err := s.triggers.Add(ctx, msg.ChatID, keyword, msg.ReplyTo.Kind, msg.ReplyTo.Payload, msg.Sender.Name)
	switch err {
	case nil:
	case usecase.ErrEmptyKeyword:
		s.reply(ctx, msg.ChatID, replyNeedAddKey)
		return
	case usecase.ErrKeywordTooLong:
		s.reply(ctx, msg.ChatID, replyKeyTooLong)
		return
	case usecase.ErrReservedKeyword:
		s.reply(ctx, msg.ChatID, replyKeyReserved)
		return
	default:
		fmt.Printf("[Bot] Failed to add trigger %q in %d: %v\n", keyword, msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyGenericFailure)
		return
	}

	if created {
		s.reply(ctx, msg.ChatID, fmt.Sprintf("✅ Триггер '%s' добавлен! 🎉", keyword))
	} else {
		s.reply(ctx, msg.ChatID, fmt.Sprintf("✅ Новый ответ для триггера '%s' добавлен! 👍", keyword))
	}
}

func (s *BotService) handleDeleteTrigger(ctx context.Context, msg *domain.Message, keyword string) {
	if !s.callerIsAdmin(ctx, msg) {
		s.reply(ctx, msg.ChatID, replyAdminOnly)
		return
	}

	err := s.triggers.Delete(ctx, msg.ChatID, keyword)
	if err == usecase.ErrEmptyKeyword {
		s.reply(ctx, msg.ChatID, replyNeedDelKey)
		return
	}
	if err != nil {
		fmt.Printf("[Bot] Failed to delete trigger %q in %d: %v\n", keyword, msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyGenericFailure)
		return
	}
	s.reply(ctx, msg.ChatID, fmt.Sprintf("✅ Триггер '%s' удалён! ✂️", keyword))
}

func (s *BotService) handleListTriggers(ctx context.Context, msg *domain.Message) {
	triggers, err := s.triggers.List(ctx, msg.ChatID)
	if err != nil {
		fmt.Printf("[Bot] Failed to list triggers in %d: %v\n", msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyGenericFailure)
		return
	}
	if len(triggers) == 0 {
		s.reply(ctx, msg.ChatID, replyNoTriggers)
		return
	}

	text := "📋 Список триггеров:"
	for i, t := range triggers {
		text += fmt.Sprintf("\n%d. %s (от: %s)", i+1, t.Keyword, strings.Join(t.AddedBy, ", "))
	}
	s.reply(ctx, msg.ChatID, text)
}

func (s *BotService) handleSetBirthday(ctx context.Context, msg *domain.Message, token string) {
	if token == "" {
		s.reply(ctx, msg.ChatID, replyBirthdayUsage)
		return
	}
	date, err := domain.ParseBirthDate(token)
	if err != nil {
		s.reply(ctx, msg.ChatID, replyBirthdayBadDate)
		return
	}

	updated, err := s.birthdays.Set(ctx, msg.ChatID, msg.Sender.UserID, msg.Sender.Name, date)
	if err != nil {
		fmt.Printf("[Bot] Failed to set birthday in %d: %v\n", msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyGenericFailure)
		return
	}
	if updated {
		s.reply(ctx, msg.ChatID, fmt.Sprintf("✅ Дата рождения обновлена для @%s! 🎂", msg.Sender.Name))
	} else {
		s.reply(ctx, msg.ChatID, fmt.Sprintf("✅ Дата рождения установлена для @%s! 🎉", msg.Sender.Name))
	}
}

func (s *BotService) handleTopTalker(ctx context.Context, msg *domain.Message) {
	top, err := s.activity.Top(ctx, msg.ChatID, s.now())
	if err != nil {
		fmt.Printf("[Bot] Failed to get top talker in %d: %v\n", msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyTalkerFailed)
		return
	}
	if top == nil {
		s.reply(ctx, msg.ChatID, replyNobodyTalked)
		return
	}

	name := fmt.Sprintf("id%d", top.UserID)
	if member, err := s.gateway.ChatMember(ctx, msg.ChatID, top.UserID); err == nil {
		name = member.Name
	} else {
		fmt.Printf("[Bot] Failed to resolve member %d in %d: %v\n", top.UserID, msg.ChatID, err)
	}
	s.reply(ctx, msg.ChatID, fmt.Sprintf(
		"📢 Болтун сегодня: @%s\nСлов за сегодня: %d\nСлов за всё время: %d",
		name, top.TodayWords, top.TotalWords,
	))
}

func (s *BotService) handleDailyWinner(ctx context.Context, msg *domain.Message) {
	winner, err := s.winner.Pick(ctx, msg.ChatID, s.now())
	if err == usecase.ErrNoAdministrators {
		s.reply(ctx, msg.ChatID, replyNoAdministrators)
		return
	}
	if err != nil {
		fmt.Printf("[Bot] Failed to pick winner in %d: %v\n", msg.ChatID, err)
		s.reply(ctx, msg.ChatID, replyNoAdministrators)
		return
	}
	s.reply(ctx, msg.ChatID, fmt.Sprintf("Сегодня красавчик: @%s! 🌟", winner.Username))
}

func (s *BotService) handleInvokeTrigger(ctx context.Context, msg *domain.Message, keyword string) {
	trigger, err := s.triggers.Resolve(ctx, msg.ChatID, keyword)
	if err != nil {
		fmt.Printf("[Bot] Failed to resolve trigger %q in %d: %v\n", keyword, msg.ChatID, err)
		return
	}
	if trigger == nil {
		// Ordinary chat line, not a keyword. The common case.
		return
	}

	for _, payload := range trigger.Responses {
		var sendErr error
		if trigger.Kind == domain.MediaText {
			sendErr = s.gateway.SendText(ctx, msg.ChatID, payload)
		} else {
			sendErr = s.gateway.SendMedia(ctx, msg.ChatID, trigger.Kind, payload)
		}
		if sendErr != nil {
			// One failed payload must not abort the rest of the sequence.
			fmt.Printf("[Bot] Failed to send trigger payload in %d: %v\n", msg.ChatID, sendErr)
			continue
		}
		if trigger.Kind == domain.MediaSticker {
			time.Sleep(s.pause)
		}
	}
}

func (s *BotService) handleRecordActivity(ctx context.Context, msg *domain.Message) {
	if msg.Sender.IsBot {
		return
	}
	if err := s.activity.Record(ctx, msg.ChatID, msg.Sender.UserID, msg.Text, s.now()); err != nil {
		fmt.Printf("[Bot] Failed to record activity in %d: %v\n", msg.ChatID, err)
	}
}

// callerIsAdmin asks the gateway; a lookup failure counts as not-admin.
func (s *BotService) callerIsAdmin(ctx context.Context, msg *domain.Message) bool {
	ok, err := s.gateway.IsAdmin(ctx, msg.ChatID, msg.Sender.UserID)
	if err != nil {
		fmt.Printf("[Bot] Failed to check admin %d in %d: %v\n", msg.Sender.UserID, msg.ChatID, err)
		return false
	}
	return ok
}

func (s *BotService) reply(ctx context.Context, chatID int64, text string) {
	if err := s.gateway.SendText(ctx, chatID, text); err != nil {
		fmt.Printf("[Bot] Failed to send reply to %d: %v\n", chatID, err)
	}
}
