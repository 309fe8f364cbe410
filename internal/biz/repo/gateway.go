package repo

import (
	"context"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
)

// ChatGateway is the messaging gateway interface.
// Responsible for delivering replies and resolving chat facts
// through the Telegram API.
type ChatGateway interface {
	// SendText sends a plain text message to a chat.
	SendText(ctx context.Context, chatID int64, text string) error

	// SendMedia sends a stored media payload by file id, dispatching on
	// kind (photo, video, video_note, audio, document, sticker).
	SendMedia(ctx context.Context, chatID int64, kind domain.MediaKind, fileID string) error

	// ChatAdministrators returns the chat's administrators.
	ChatAdministrators(ctx context.Context, chatID int64) ([]domain.Member, error)

	// ChatMember resolves one member's display name.
	ChatMember(ctx context.Context, chatID int64, userID int) (*domain.Member, error)

	// IsAdmin reports whether the user administers the chat.
	IsAdmin(ctx context.Context, chatID int64, userID int) (bool, error)
}
