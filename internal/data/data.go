package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timsabitov/kniga-bratan-bot/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the bot database and ensures the
// schema exists.
func Open(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS triggers (
			chat_id INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			type TEXT NOT NULL,
			response TEXT NOT NULL,
			added_by TEXT NOT NULL,
			PRIMARY KEY (chat_id, keyword)
		)`,
		`CREATE TABLE IF NOT EXISTS birthdays (
			chat_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			birthday TEXT NOT NULL,
			PRIMARY KEY (chat_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS activity (
			chat_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			word_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (chat_id, user_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_chat_date ON activity(chat_id, date)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

// Repositories contains all repositories.
type Repositories struct {
	Trigger  repo.TriggerRepo
	Birthday repo.BirthdayRepo
	Activity repo.ActivityRepo
}

// NewRepositories creates all repositories over one database.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Trigger:  NewTriggerRepo(db),
		Birthday: NewBirthdayRepo(db),
		Activity: NewActivityRepo(db),
	}
}
