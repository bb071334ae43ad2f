package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"wgze/internal/staleness"
	"wgze/models"
)

// EmptyNotice is shown instead of suggestions when the catalog has no dishes.
const EmptyNotice = "You have not added any dishes yet. Add some on the dishes page first."

// NoSuggestionsNotice replaces a blank reply from the generator.
const NoSuggestionsNotice = "No suggestions available."

// RecentWindowDays is how long a dish stays excluded from suggestions after it was eaten.
const RecentWindowDays = 14

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Dish is the view of a catalog entry the prompt needs.
type Dish struct {
	Name               string
	Notes              string
	DaysSinceLastEaten int
	Eaten              bool
}

// Suggestion is the outcome of a suggestion request.
type Suggestion struct {
	Empty bool
	Text  string
}

// UpstreamError reports a failed generator call.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("suggestion service failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ErrNoGenerator is returned by Suggest when no generator is configured.
var ErrNoGenerator = errors.New("ai: no suggestion generator configured")

// Season maps a month onto a coarse season label.
func Season(month time.Month) string {
	switch month {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// Assembler renders suggestion prompts and forwards them to a Generator.
type Assembler struct {
	Generator Generator
	// Language the reply should be written in. Defaults to German.
	Language string
	// Shuffle reorders dishes in place. Defaults to a uniform Fisher-Yates shuffle.
	Shuffle func([]Dish)
}

// Suggest asks the generator for suggestions. An empty catalog short-circuits
// with EmptyNotice and never reaches the generator.
func (a *Assembler) Suggest(ctx context.Context, dishes []Dish, preferences string, today time.Time) (Suggestion, error) {
	if len(dishes) == 0 {
		return Suggestion{Empty: true, Text: EmptyNotice}, nil
	}
	if a.Generator == nil {
		return Suggestion{}, ErrNoGenerator
	}

	reply, err := a.Generator.Generate(ctx, a.Prompt(dishes, preferences, today))
	if err != nil {
		return Suggestion{}, &UpstreamError{Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		return Suggestion{Text: NoSuggestionsNotice}, nil
	}
	return Suggestion{Text: reply}, nil
}

// Prompt renders the instruction block for dishes. The input slice is not modified.
func (a *Assembler) Prompt(dishes []Dish, preferences string, today time.Time) string {
	shuffled := make([]Dish, len(dishes))
	copy(shuffled, dishes)
	shuffle := a.Shuffle
	if shuffle == nil {
		shuffle = Shuffle
	}
	shuffle(shuffled)

	language := strings.TrimSpace(a.Language)
	if language == "" {
		language = "German"
	}
	preferences = strings.TrimSpace(preferences)
	if preferences == "" {
		preferences = "No specific preferences"
	}

	var b strings.Builder
	b.WriteString("<task>\n")
	b.WriteString("Your goal is to suggest 3 dishes to the user. In order to arrive at these 3 dishes you will execute the following 4 steps in order:\n")
	fmt.Fprintf(&b, "1. FILTER: NEVER suggest dishes that have been eaten within the last %d days.\n", RecentWindowDays)
	b.WriteString("2. FILTER: Consider the user's preferences, if any. All dishes that do NOT fit those preferences can NOT be picked for the suggestions.\n")
	b.WriteString("3. FILTER: Consider the current season and date. All dishes that EXPLICITLY mention being seasonal can NOT be picked for the suggestions if their seasonality is not currently given.\n")
	b.WriteString("4. SELECT: Among the remaining dishes, pick 3. The longer a dish has not been eaten, the more likely it is to be picked but do NOT just pick the oldest three every time.\n")
	b.WriteString("</task>\n\n")

	b.WriteString("<seasonal-filter>\n")
	fmt.Fprintf(&b, "Today's date: %s\n", models.FormatDate(today))
	fmt.Fprintf(&b, "Current season: %s\n", Season(today.Month()))
	b.WriteString("</seasonal-filter>\n\n")

	b.WriteString("<user-preferences-filter>\n")
	b.WriteString(preferences)
	b.WriteString("\n</user-preferences-filter>\n\n")

	b.WriteString("<dishes>\n")
	for _, dish := range shuffled {
		b.WriteString(dishLine(dish))
		b.WriteByte('\n')
	}
	b.WriteString("</dishes>\n\n")

	b.WriteString("<strictness>\n")
	b.WriteString("If dishes are tied in terms of how long ago they have been eaten, take the one that appears earlier in the list.\n")
	b.WriteString("</strictness>\n\n")

	b.WriteString("<output>\n")
	fmt.Fprintf(&b, "Please respond in %s and format your response as a simple list with brief explanations. End the suggestions with a poem about the dishes that you picked.\n", language)
	b.WriteString("</output>\n")
	return b.String()
}

func dishLine(dish Dish) string {
	lastEaten := "never eaten"
	if dish.Eaten {
		lastEaten = fmt.Sprintf("last eaten %d days ago", dish.DaysSinceLastEaten)
	}
	line := "- " + dish.Name + ": " + lastEaten
	if notes := strings.TrimSpace(dish.Notes); notes != "" {
		line += " (Notes: " + notes + ")"
	}
	return line
}

// Shuffle is a uniform Fisher-Yates shuffle.
func Shuffle(dishes []Dish) {
	for i := len(dishes) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		dishes[i], dishes[j] = dishes[j], dishes[i]
	}
}

// FromStaleness converts a staleness annotation into a prompt entry.
func FromStaleness(name string, notes *string, lastEaten *time.Time, days int) Dish {
	dish := Dish{Name: name, DaysSinceLastEaten: days, Eaten: lastEaten != nil}
	if notes != nil {
		dish.Notes = *notes
	}
	if !dish.Eaten {
		dish.DaysSinceLastEaten = staleness.Never
	}
	return dish
}
