package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/domain"
	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"
)

// birthdayRepo implements the Birthday repository.
type birthdayRepo struct {
	db *sql.DB
}

// NewBirthdayRepo creates a new Birthday repository.
func NewBirthdayRepo(db *sql.DB) repo.BirthdayRepo {
	return &birthdayRepo{db: db}
}

func (r *birthdayRepo) Get(ctx context.Context, chatID int64, userID int) (*domain.Birthday, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, user_id, username, birthday
		FROM birthdays
		WHERE chat_id = ? AND user_id = ?
	`, chatID, userID)

	birthday, err := scanBirthday(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query birthday: %w", err)
	}
	return birthday, nil
}

func (r *birthdayRepo) Save(ctx context.Context, birthday *domain.Birthday) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO birthdays (chat_id, user_id, username, birthday)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chat_id, user_id) DO UPDATE SET
			username = excluded.username,
			birthday = excluded.birthday
	`,
		birthday.ChatID,
		birthday.UserID,
		birthday.Username,
		birthday.Date.Format(domain.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save birthday: %w", err)
	}
	return nil
}

func (r *birthdayRepo) DueOn(ctx context.Context, month time.Month, day int) ([]*domain.Birthday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, user_id, username, birthday
		FROM birthdays
		WHERE strftime('%m', birthday) = ? AND strftime('%d', birthday) = ?
	`, fmt.Sprintf("%02d", int(month)), fmt.Sprintf("%02d", day))
	if err != nil {
		return nil, fmt.Errorf("failed to query due birthdays: %w", err)
	}
	defer rows.Close()

	var birthdays []*domain.Birthday
	for rows.Next() {
		birthday, err := scanBirthday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan birthday: %w", err)
		}
		birthdays = append(birthdays, birthday)
	}
	return birthdays, rows.Err()
}

func scanBirthday(row rowScanner) (*domain.Birthday, error) {
	var birthday domain.Birthday
	var date string
	if err := row.Scan(&birthday.ChatID, &birthday.UserID, &birthday.Username, &date); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("bad stored date %q: %w", date, err)
	}
	birthday.Date = parsed
	return &birthday, nil
}
