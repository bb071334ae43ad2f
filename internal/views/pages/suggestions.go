package pages

// SuggestionResultID is the element the suggestion form swaps.
const SuggestionResultID = "suggestion-result"
