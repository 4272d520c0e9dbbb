package suggest

import (
	"errors"
	"fmt"
	"strings"
)

// AgeGroup is the age bracket of the person receiving the gift.
type AgeGroup string

const (
	AgeChild    AgeGroup = "Child"
	AgeTeenager AgeGroup = "Teenager"
	AgeAdult    AgeGroup = "Adult"
	AgeSenior   AgeGroup = "Senior"
)

// AgeGroups lists every age bracket in display order.
var AgeGroups = []AgeGroup{AgeChild, AgeTeenager, AgeAdult, AgeSenior}

// Budget is the spending bracket for the gift.
type Budget string

const (
	BudgetLimited Budget = "Limited"
	BudgetMedium  Budget = "Medium"
	BudgetHigh    Budget = "High"
)

// Budgets lists every budget bracket in display order.
var Budgets = []Budget{BudgetLimited, BudgetMedium, BudgetHigh}

// Occasions are the occasions offered to the user. Any other text is accepted.
var Occasions = []string{"Birthday", "Wedding", "New Year", "Anniversary", "Other"}

// ErrMissingInterests is returned when a request names neither loves nor hobbies.
var ErrMissingInterests = errors.New("tell us what they love or their hobbies first")

// Request describes the person a gift is for.
type Request struct {
	Loves    string   `json:"loves"`
	Hobbies  string   `json:"hobbies"`
	Age      AgeGroup `json:"age"`
	Budget   Budget   `json:"budget"`
	Occasion string   `json:"occasion"`
}

// NewRequest returns a request with the default age, budget and occasion.
func NewRequest(loves, hobbies string) Request {
	return Request{
		Loves:    loves,
		Hobbies:  hobbies,
		Age:      AgeAdult,
		Budget:   BudgetMedium,
		Occasion: "Birthday",
	}
}

// Validate checks that the request can be submitted.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Loves) == "" && strings.TrimSpace(r.Hobbies) == "" {
		return ErrMissingInterests
	}
	return nil
}

// ParseAgeGroup matches s case-insensitively against the known age groups.
func ParseAgeGroup(s string) (AgeGroup, error) {
	for _, a := range AgeGroups {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown age group %q", s)
}

// ParseBudget matches s case-insensitively against the known budgets.
func ParseBudget(s string) (Budget, error) {
	for _, b := range Budgets {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown budget %q", s)
}
