// Package levelup holds the draft state of an in-progress level-up. A
// session accumulates the player's choices step by step and nothing touches
// the character until the final commit.
package levelup

import (
	"time"

	"github.com/ironrations/charsheet/internal/domain/shared"
)

// State is the wizard's current step
type State string

const (
	// StateSelectClass awaits the class taking the new level
	StateSelectClass State = "select_class"
	// StateChooseSubclass awaits a subclass pick, only when the new class
	// level unlocks one
	StateChooseSubclass State = "choose_subclass"
	// StateChooseHP awaits the hit point method for the new level
	StateChooseHP State = "choose_hp"
	// StateChooseASIOrFeat awaits an ability score improvement or a feat,
	// only at ASI levels
	StateChooseASIOrFeat State = "choose_asi_or_feat"
	// StateAllocatePoints awaits spending points granted by a chosen feat
	StateAllocatePoints State = "allocate_points"
	// StateReady means every required choice is made and commit may run
	StateReady State = "ready"
	// StateCommitted is terminal; the character has been mutated
	StateCommitted State = "committed"
)

// HPMethod is how the new level's hit points were determined
type HPMethod string

const (
	HPMethodMax     HPMethod = "max"
	HPMethodAverage HPMethod = "average"
	HPMethodRoll    HPMethod = "roll"
)

// Session is one in-progress level-up. All fields besides ID/CharacterID
// are filled in as the wizard advances; Back transitions clear them again.
type Session struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	OwnerID     string `json:"owner_id"`

	State State `json:"state"`

	// TargetLevel is the total character level being gained
	TargetLevel int `json:"target_level"`

	ClassKey    string `json:"class_key,omitempty"`
	SubclassKey string `json:"subclass_key,omitempty"`

	// SubclassRequired is set during class selection when the new class
	// level unlocks a subclass choice
	SubclassRequired bool `json:"subclass_required,omitempty"`

	// ASIAvailable is set during class selection when the new class level
	// grants an ability score improvement
	ASIAvailable bool `json:"asi_available,omitempty"`

	HPMethod HPMethod `json:"hp_method,omitempty"`
	// HPGain is the rolled or fixed die contribution, before constitution
	HPGain int `json:"hp_gain,omitempty"`

	// ASIAllocation is the two-point ability improvement, when ASI was chosen
	ASIAllocation map[shared.Attribute]int `json:"asi_allocation,omitempty"`

	// FeatKey is the chosen feat, when a feat was taken instead of the ASI
	FeatKey string `json:"feat_key,omitempty"`

	// PendingPoints and AllowedAbilities carry a chosen feat's point grant
	// into the allocation step
	PendingPoints    int                `json:"pending_points,omitempty"`
	AllowedAbilities []shared.Attribute `json:"allowed_abilities,omitempty"`

	// PointAllocation is the spend of the feat-granted points
	PointAllocation map[shared.Attribute]int `json:"point_allocation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClearClassChoices resets everything chosen from the class step onward,
// used when backing up to class selection.
func (s *Session) ClearClassChoices() {
	s.ClassKey = ""
	s.SubclassKey = ""
	s.SubclassRequired = false
	s.ASIAvailable = false
	s.ClearHPChoice()
}

// ClearHPChoice resets the HP step and everything after it
func (s *Session) ClearHPChoice() {
	s.HPMethod = ""
	s.HPGain = 0
	s.ClearASIChoice()
}

// ClearASIChoice resets the ASI/feat step and the point allocation
func (s *Session) ClearASIChoice() {
	s.ASIAllocation = nil
	s.FeatKey = ""
	s.PendingPoints = 0
	s.AllowedAbilities = nil
	s.PointAllocation = nil
}
