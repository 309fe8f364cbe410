package usecase

import (
	"math/rand"
	"strings"
)

// usernamePlaceholder marks where a quote wants the caller's name.
const usernamePlaceholder = "@{username}"

// noQuotesFallback is returned when no quotes are configured.
const noQuotesFallback = "Нет доступных цитат."

// QuoteUsecase serves random quotes from the list loaded at startup.
type QuoteUsecase struct {
	quotes []string
}

// NewQuoteUsecase creates a new quote usecase.
func NewQuoteUsecase(quotes []string) *QuoteUsecase {
	return &QuoteUsecase{quotes: quotes}
}

// Random picks a quote and addresses it to the caller: a quote with a
// username placeholder gets the name substituted in place, any other
// quote gets it appended.
func (uc *QuoteUsecase) Random(username string) string {
	if len(uc.quotes) == 0 {
		return noQuotesFallback
	}
	quote := uc.quotes[rand.Intn(len(uc.quotes))]
	if strings.Contains(quote, usernamePlaceholder) {
		return strings.ReplaceAll(quote, usernamePlaceholder, "@"+username)
	}
	return quote + " 😎 @" + username
}
