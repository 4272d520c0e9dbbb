package models

// Suggestion is a single AI generated gift idea.
type Suggestion struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ApproximatePrice string `json:"approximate_price"`
}
