package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// activityRepo implements the Activity repository.
type activityRepo struct {
	db *sql.DB
}

// NewActivityRepo creates a new Activity repository.
func NewActivityRepo(db *sql.DB) repo.ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) Add(ctx context.Context, chatID int64, userID int, date string, words int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (chat_id, user_id, date, word_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chat_id, user_id, date) DO UPDATE SET
			word_count = word_count + excluded.word_count
	`, chatID, userID, date, words)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

func (r *activityRepo) TopForDate(ctx context.Context, chatID int64, date string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, user_id, date, word_count
		FROM activity
		WHERE chat_id = ? AND date = ?
		ORDER BY word_count DESC, user_id ASC
		LIMIT 1
	`, chatID, date)

	var a domain.Activity
	err := row.Scan(&a.ChatID, &a.UserID, &a.Date, &a.WordCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top activity: %w", err)
	}
	return &a, nil
}

func (r *activityRepo) TotalFor(ctx context.Context, chatID int64, userID int) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(word_count), 0)
		FROM activity
		WHERE chat_id = ? AND user_id = ?
	`, chatID, userID)

	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum activity: %w", err)
	}
	return total, nil
}
