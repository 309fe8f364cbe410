package domain

import (
	"fmt"
	"regexp"
	"time"
)

// birthDateLayout is the user-facing date format, DD.MM.YYYY.
const birthDateLayout = "02.01.2006"

// time.Parse alone accepts unpadded day/month, so the shape is
// checked separately to keep the format strict.
var birthDateShape = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// Birthday is one user's birthday in one chat, keyed by
// (ChatID, UserID). Username is denormalized and refreshed on update.
// The year is stored but only month and day are used for matching.
type Birthday struct {
	ChatID   int64
	UserID   int
	Username string
	Date     time.Time
}

// IsOn reports whether the birthday falls on the given month and day.
func (b *Birthday) IsOn(month time.Month, day int) bool {
	return b.Date.Month() == month && b.Date.Day() == day
}

// ParseBirthDate parses a strict DD.MM.YYYY token.
func ParseBirthDate(token string) (time.Time, error) {
	if !birthDateShape.MatchString(token) {
		return time.Time{}, fmt.Errorf("invalid date token %q: want DD.MM.YYYY", token)
	}
	d, err := time.Parse(birthDateLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date token %q: %w", token, err)
	}
	return d, nil
}
