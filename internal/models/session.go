package models

import (
	"time"
)

// FlowKind names a multi-step dialog a user can be in
type FlowKind string

// StateID names a single step within a flow
type StateID string

// Flow kinds, one per entry command.
const (
	FlowRecipe FlowKind = "add_recipe"
	FlowBMI    FlowKind = "calculate_bmi"
	FlowSearch FlowKind = "search_recipes"
)

// States of the recipe creation flow, in dialog order.
const (
	StateTitle        StateID = "title"
	StateIngredients  StateID = "ingredients"
	StateCookingTime  StateID = "cooking_time"
	StateSkillLevel   StateID = "skill_level"
	StateCalories     StateID = "calories"
	StateInstructions StateID = "instructions"
	StatePhoto        StateID = "photo"
)

// States of the BMI flow.
const (
	StateHeight StateID = "height"
	StateWeight StateID = "weight"
)

// State of the search flow.
const (
	StateQuery StateID = "query"
)

// Session is the in-progress dialog of a single user. It exists only while
// a flow is active and is never persisted; a restart drops in-flight dialogs.
type Session struct {
	ID         string            `json:"id"` // the user's WhatsApp number
	Flow       FlowKind          `json:"flow"`
	State      StateID           `json:"state"`
	Fields     map[string]string `json:"fields"` // validated values collected so far
	CreatedAt  time.Time         `json:"created_at"`
	LastActive time.Time         `json:"last_active"`
}

// NewSession starts a session at the entry state of a flow
func NewSession(id string, flow FlowKind, entry StateID) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Flow:       flow,
		State:      entry,
		Fields:     make(map[string]string),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Touch refreshes the activity timestamp
func (s *Session) Touch() {
	s.LastActive = time.Now()
}
