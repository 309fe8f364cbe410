package domain

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// MediaKind is the kind of payload a trigger replies with.
// All payloads of one trigger share a single kind.
type MediaKind string

const (
	MediaText      MediaKind = "text"
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaVideoNote MediaKind = "video_note"
	MediaAudio     MediaKind = "audio"
	MediaDocument  MediaKind = "document"
	MediaSticker   MediaKind = "sticker"
)

// MaxKeywordLen is the longest accepted trigger keyword, in runes.
const MaxKeywordLen = 128

// reservedKeywords are command words that may never be used as trigger
// keywords, otherwise the command routing would be shadowed.
var reservedKeywords = map[string]struct{}{
	"!add":    {},
	"!del":    {},
	"!list":   {},
	"!bd":     {},
	"!help":   {},
	"!talker": {},
	"болтун":  {},
}

// IsReservedKeyword reports whether the keyword collides with a
// built-in command (case-insensitive).
func IsReservedKeyword(keyword string) bool {
	_, ok := reservedKeywords[strings.ToLower(keyword)]
	return ok
}

// ValidKeywordLen reports whether the keyword fits the length limit.
func ValidKeywordLen(keyword string) bool {
	return utf8.RuneCountInString(keyword) <= MaxKeywordLen
}

// StringList is an ordered sequence of strings stored as a JSON array
// in a single text column.
type StringList []string

// EncodeJSON serializes the list for storage.
func (l StringList) EncodeJSON() string {
	data, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeStringList parses a stored column value. A value that is not a
// JSON array of strings is wrapped as a single-element list; old rows
// stored the raw value directly and still have to resolve.
func DecodeStringList(raw string) StringList {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return StringList{raw}
	}
	return StringList(list)
}

// Contains reports whether the list holds the exact value.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// Trigger is a chat-scoped keyword mapped to an ordered sequence of
// reply payloads of a single media kind. Keyed by (ChatID, Keyword).
type Trigger struct {
	ChatID    int64
	Keyword   string // stored lowercase
	Kind      MediaKind
	Responses StringList // payloads: reply text or media file ids
	AddedBy   StringList // contributor display names, unique, in order
}

// NewTrigger creates a trigger with single-element sequences.
func NewTrigger(chatID int64, keyword string, kind MediaKind, payload, contributor string) *Trigger {
	return &Trigger{
		ChatID:    chatID,
		Keyword:   strings.ToLower(keyword),
		Kind:      kind,
		Responses: StringList{payload},
		AddedBy:   StringList{contributor},
	}
}

// Append adds one payload to the response sequence and, if not present
// yet, the contributor to the contributor sequence. Prior payloads are
// never replaced.
func (t *Trigger) Append(payload, contributor string) {
	t.Responses = append(t.Responses, payload)
	if !t.AddedBy.Contains(contributor) {
		t.AddedBy = append(t.AddedBy, contributor)
	}
}
