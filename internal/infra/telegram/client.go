package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "gopkg.in/telegram-bot-api.v4"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// updateTimeout is the long-polling timeout, in seconds.
const updateTimeout = 60

// Client wraps the Telegram Bot API behind the ChatGateway interface.
type Client struct {
	api   *tgbotapi.BotAPI
	fetch func(tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	stop  chan struct{}
}

// NewClient creates and authorizes a Telegram client.
func NewClient(token string, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	api.Debug = debug
	fmt.Printf("[Telegram] Authorized as @%s\n", api.Self.UserName)
	return &Client{api: api, fetch: api.GetUpdates, stop: make(chan struct{})}, nil
}

// Updates starts long polling and returns the update channel. The
// library's own updates channel cannot be stopped, so the poll loop is
// run here with a stop signal; the channel closes after Stop.
func (c *Client) Updates() <-chan tgbotapi.Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeout
	updates := make(chan tgbotapi.Update, 100)

	go func() {
		for {
			batch, err := c.fetch(cfg)
			if err != nil {
				fmt.Printf("[Telegram] Failed to get updates, retrying in 3s: %v\n", err)
				// Stay stoppable while the retry backoff runs.
				select {
				case <-c.stop:
					close(updates)
					return
				case <-time.After(3 * time.Second):
				}
				continue
			}
			for _, update := range batch {
				if update.UpdateID >= cfg.Offset {
					cfg.Offset = update.UpdateID + 1
					updates <- update
				}
			}
			select {
			case <-c.stop:
				close(updates)
				return
			default:
			}
		}
	}()

	return updates
}

// Stop terminates the polling loop after its current poll returns.
func (c *Client) Stop() {
	close(c.stop)
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send text to %d: %w", chatID, err)
	}
	return nil
}

// SendMedia sends a stored media payload by file id.
func (c *Client) SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, fileID string) error {
	var payload tgbotapi.Chattable
	switch kind {
	case domain.MediaPhoto:
		payload = tgbotapi.NewPhotoShare(chatID, fileID)
	case domain.MediaVideo:
		payload = tgbotapi.NewVideoShare(chatID, fileID)
	case domain.MediaVideoNote:
		payload = tgbotapi.NewVideoNoteShare(chatID, 0, fileID)
	case domain.MediaAudio:
		payload = tgbotapi.NewAudioShare(chatID, fileID)
	case domain.MediaDocument:
		payload = tgbotapi.NewDocumentShare(chatID, fileID)
	case domain.MediaSticker:
		payload = tgbotapi.NewStickerShare(chatID, fileID)
	default:
		return fmt.Errorf("unknown media kind %q", kind)
	}
	if _, err := c.api.Send(payload); err != nil {
		return fmt.Errorf("failed to send %s to %d: %w", kind, chatID, err)
	}
	return nil
}

// ChatAdministrators returns the chat's administrators.
func (c *Client) ChatAdministrators(ctx context.Context, chatID int64) ([]domain.Member, error) {
	admins, err := c.api.GetChatAdministrators(tgbotapi.ChatConfig{ChatID: chatID})
	if err != nil {
		return nil, fmt.Errorf("failed to get administrators of %d: %w", chatID, err)
	}
	members := make([]domain.Member, 0, len(admins))
	for _, a := range admins {
		if a.User == nil {
			continue
		}
		members = append(members, domain.Member{
			UserID: a.User.ID,
			Name:   displayName(a.User),
		})
	}
	return members, nil
}

// ChatMember resolves one member's display name.
func (c *Client) ChatMember(ctx context.Context, chatID int64, userID int) (*domain.Member, error) {
	member, err := c.api.GetChatMember(tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d of %d: %w", userID, chatID, err)
	}
	if member.User == nil {
		return nil, fmt.Errorf("member %d of %d has no user", userID, chatID)
	}
	return &domain.Member{UserID: member.User.ID, Name: displayName(member.User)}, nil
}

// IsAdmin reports whether the user administers the chat.
func (c *Client) IsAdmin(ctx context.Context, chatID int64, userID int) (bool, error) {
	member, err := c.api.GetChatMember(tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID})
	if err != nil {
		return false, fmt.Errorf("failed to check admin %d of %d: %w", userID, chatID, err)
	}
	return member.IsAdministrator() || member.IsCreator(), nil
}

// MessageFromUpdate converts a polled update into a domain message.
// Returns nil for updates that carry no text message.
func MessageFromUpdate(update tgbotapi.Update) *domain.Message {
	m := update.Message
	if m == nil || m.Chat == nil || m.From == nil || m.Text == "" {
		return nil
	}
	msg := &domain.Message{
		ChatID: m.Chat.ID,
		Sender: domain.Sender{
			UserID: m.From.ID,
			Name:   displayName(m.From),
			IsBot:  m.From.IsBot,
		},
		Text: m.Text,
	}
	if m.ReplyToMessage != nil {
		msg.ReplyTo = replyFrom(m.ReplyToMessage)
	}
	return msg
}

// replyFrom extracts the payload of a replied-to message: its text or
// caption when present, otherwise the media file id. The kind follows
// the populated media field even when the payload is a caption.
func replyFrom(m *tgbotapi.Message) *domain.ReplyMessage {
	reply := &domain.ReplyMessage{Kind: messageKind(m)}
	switch {
	case m.Text != "":
		reply.Payload = m.Text
	case m.Caption != "":
		reply.Payload = m.Caption
	case m.Photo != nil && len(*m.Photo) > 0:
		// Telegram lists sizes ascending; keep the largest.
		reply.Payload = (*m.Photo)[len(*m.Photo)-1].FileID
	case m.Video != nil:
		reply.Payload = m.Video.FileID
	case m.VideoNote != nil:
		reply.Payload = m.VideoNote.FileID
	case m.Audio != nil:
		reply.Payload = m.Audio.FileID
	case m.Document != nil:
		reply.Payload = m.Document.FileID
	case m.Sticker != nil:
		reply.Payload = m.Sticker.FileID
	}
	return reply
}

func messageKind(m *tgbotapi.Message) domain.MediaKind {
	switch {
	case m.VideoNote != nil:
		return domain.MediaVideoNote
	case m.Photo != nil && len(*m.Photo) > 0:
		return domain.MediaPhoto
	case m.Video != nil:
		return domain.MediaVideo
	case m.Audio != nil:
		return domain.MediaAudio
	case m.Document != nil:
		return domain.MediaDocument
	case m.Sticker != nil:
		return domain.MediaSticker
	default:
		return domain.MediaText
	}
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
