package service

import "strings"

// Intent is what one inbound message asks the bot to do.
type Intent int

const (
	IntentNone Intent = iota
	IntentAddTrigger
	IntentDeleteTrigger
	IntentListTriggers
	IntentSetBirthday
	IntentHelp
	IntentTopTalker
	IntentQuote
	IntentDailyWinner
	IntentInvokeTrigger
	IntentRecordActivity
)

// Command is a routed intent with its argument, if the rule has one.
type Command struct {
	Intent Intent
	Arg    string
}

// Route classifies a message text against the fixed rule set, first
// match wins. Matching is case-insensitive. Ordinary text (anything
// not starting with "!") yields two commands: a trigger-keyword lookup
// and an activity increment. Unmatched "!" text yields nothing.
func Route(text string) []Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "!add"):
		return []Command{{IntentAddTrigger, strings.TrimSpace(trimmed[len("!add"):])}}
	case strings.HasPrefix(lower, "!del"):
		return []Command{{IntentDeleteTrigger, strings.TrimSpace(trimmed[len("!del"):])}}
	case lower == "!list":
		return []Command{{Intent: IntentListTriggers}}
	case lower == "!bd" || strings.HasPrefix(lower, "!bd "):
		return []Command{{IntentSetBirthday, strings.TrimSpace(trimmed[len("!bd"):])}}
	case lower == "!help":
		return []Command{{Intent: IntentHelp}}
	case lower == "!talker" || lower == "болтун":
		return []Command{{Intent: IntentTopTalker}}
	case lower == "книга братан":
		return []Command{{Intent: IntentQuote}}
	case lower == "кто красавчик сегодня" || lower == "красавчик сегодня" || lower == "красавчик":
		return []Command{{Intent: IntentDailyWinner}}
	case strings.HasPrefix(lower, "!"):
		return nil
	default:
		return []Command{
			{IntentInvokeTrigger, lower},
			{Intent: IntentRecordActivity},
		}
	}
}
