package levelup

//go:generate mockgen -destination=mock/mock.go -package=mocklevelup -source=interface.go

import (
	"context"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/levelup"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Service drives the level-up wizard. Choices accumulate on a draft session
// and the character is only touched by Commit; everything before that is
// freely revisable through the Back transition.
type Service interface {
	// Start opens a session for the character's next level. The character
	// must have banked enough experience for it. An existing session for the
	// character is resumed instead of replaced.
	Start(ctx context.Context, characterID string) (*levelup.Session, error)

	Get(ctx context.Context, sessionID string) (*levelup.Session, error)

	// SelectClass picks the class taking the new level. An existing class is
	// always allowed; a new class starts at level 1 and is rejected once the
	// character already has two classes.
	SelectClass(ctx context.Context, sessionID, classKey string) (*levelup.Session, error)

	// ChooseSubclass resolves the subclass unlock flagged by SelectClass
	ChooseSubclass(ctx context.Context, sessionID, subclassKey string) (*levelup.Session, error)

	// ChooseHP fixes the hit point method for the new level. The roll method
	// may be re-chosen while the step is active; the first character level
	// always takes the full die.
	ChooseHP(ctx context.Context, sessionID string, method levelup.HPMethod) (*levelup.Session, error)

	// ChooseASI spends the level's improvement as two ability points
	ChooseASI(ctx context.Context, sessionID string, allocation map[shared.Attribute]int) (*levelup.Session, error)

	// ChooseFeat takes a feat instead of the ability score improvement. Feats
	// that grant ability points push the session into the allocation step.
	ChooseFeat(ctx context.Context, sessionID, featKey string) (*levelup.Session, error)

	// AllocatePoints spends the points granted by the chosen feat
	AllocatePoints(ctx context.Context, sessionID string, allocation map[shared.Attribute]int) (*levelup.Session, error)

	// Back steps the wizard to the previous choice, clearing everything the
	// abandoned step had recorded.
	Back(ctx context.Context, sessionID string) (*levelup.Session, error)

	// Commit applies the completed session to the character in one
	// transaction and discards the session. Any failure leaves the character
	// untouched.
	Commit(ctx context.Context, sessionID string) (*character.Character, error)

	// Cancel discards a session without touching the character
	Cancel(ctx context.Context, sessionID string) error

	// Reset destructively discards every class level, every feat gained by
	// leveling, and the hit point history, returning the character to its
	// pre-first-level baseline. Irreversible; confirm must be true.
	Reset(ctx context.Context, characterID string, confirm bool) (*character.Character, error)
}
