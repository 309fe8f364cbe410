package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// triggerRepo implements the Trigger repository.
type triggerRepo struct {
	db *sql.DB
}

// NewTriggerRepo creates a new Trigger repository.
func NewTriggerRepo(db *sql.DB) repo.TriggerRepo {
	return &triggerRepo{db: db}
}

func (r *triggerRepo) Get(ctx context.Context, chatID int64, keyword string) (*domain.Trigger, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, keyword, type, response, added_by
		FROM triggers
		WHERE chat_id = ? AND keyword = ?
	`, chatID, strings.ToLower(keyword))

	trigger, err := scanTrigger(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trigger: %w", err)
	}
	return trigger, nil
}

func (r *triggerRepo) ListByChat(ctx context.Context, chatID int64) ([]*domain.Trigger, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, keyword, type, response, added_by
		FROM triggers
		WHERE chat_id = ?
		ORDER BY keyword
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}
	defer rows.Close()

	var triggers []*domain.Trigger
	for rows.Next() {
		trigger, err := scanTrigger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}
		triggers = append(triggers, trigger)
	}
	return triggers, rows.Err()
}

func (r *triggerRepo) Save(ctx context.Context, trigger *domain.Trigger) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO triggers (chat_id, keyword, type, response, added_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (chat_id, keyword) DO UPDATE SET
			type = excluded.type,
			response = excluded.response,
			added_by = excluded.added_by
	`,
		trigger.ChatID,
		strings.ToLower(trigger.Keyword),
		string(trigger.Kind),
		trigger.Responses.EncodeJSON(),
		trigger.AddedBy.EncodeJSON(),
	)
	if err != nil {
		return fmt.Errorf("failed to save trigger: %w", err)
	}
	return nil
}

func (r *triggerRepo) Delete(ctx context.Context, chatID int64, keyword string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM triggers WHERE chat_id = ? AND keyword = ?
	`, chatID, strings.ToLower(keyword))
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrigger(row rowScanner) (*domain.Trigger, error) {
	var trigger domain.Trigger
	var kind, response, addedBy string
	if err := row.Scan(&trigger.ChatID, &trigger.Keyword, &kind, &response, &addedBy); err != nil {
		return nil, err
	}
	trigger.Kind = domain.MediaKind(kind)
	trigger.Responses = domain.DecodeStringList(response)
	trigger.AddedBy = domain.DecodeStringList(addedBy)
	return &trigger, nil
}
