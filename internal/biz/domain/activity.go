package domain

import (
	"strings"
	"time"
)

// DateLayout is the stored form of a calendar date.
const DateLayout = "2006-01-02"

// Activity is a per-(chat, user, day) running word counter used to
// rank chat participation. Rows accumulate indefinitely.
type Activity struct {
	ChatID    int64
	UserID    int
	Date      string // DateLayout
	WordCount int
}

// DateOf formats a point in time as a stored calendar date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// CountWords counts whitespace-delimited tokens in a message.
// Activity is measured in words, matching the stored word_count unit.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
