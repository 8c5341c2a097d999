package levelup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironrations/charsheet/internal/dice"
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/levelup"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/repositories/characters"
	"github.com/ironrations/charsheet/internal/repositories/levelups"
	charactersvc "github.com/ironrations/charsheet/internal/services/character"
)

type levelupFixture struct {
	svc       Service
	charRepo  characters.Repository
	roller    *dice.MockRoller
	character *character.Character
}

// newLevelupFixture seeds a level 2 fighter with enough XP for level 3
func newLevelupFixture(t *testing.T) *levelupFixture {
	t.Helper()

	charRepo := characters.NewInMemoryRepository()
	roller := dice.NewMockRoller()
	svc := NewService(&ServiceConfig{
		CharacterRepository: charRepo,
		SessionRepository:   levelups.NewInMemoryRepository(),
		Library:             rulebook.NewLibrary(),
		DiceRoller:          roller,
	})

	char := &character.Character{
		ID:      "char-1",
		OwnerID: "owner-1",
		Name:    "Borin",
		RaceKey: "dwarf",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    12,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 10,
			shared.AttributeWisdom:       13,
			shared.AttributeCharisma:     8,
		},
		Classes:       []*character.ClassEntry{{ClassKey: "fighter", Level: 2}},
		Experience:    900,
		HitPointRolls: []int{10, 6},
		HitDice: map[string]*shared.HitDiceResource{
			"fighter": {DiceType: 10, Max: 2, Remaining: 2},
		},
		HP:     shared.HPResource{Current: 22, Max: 22},
		Status: shared.CharacterStatusActive,
	}
	require.NoError(t, charRepo.Create(context.Background(), char))

	return &levelupFixture{svc: svc, charRepo: charRepo, roller: roller, character: char}
}

func TestStart_XPGate(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	broke := f.character.Clone()
	broke.ID = "char-broke"
	broke.Experience = 0
	require.NoError(t, f.charRepo.Create(ctx, broke))

	_, err := f.svc.Start(ctx, "char-broke")
	require.Error(t, err)
	assert.True(t, internalerrors.IsFailedPrecondition(err))

	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, levelup.StateSelectClass, session.State)
	assert.Equal(t, 3, session.TargetLevel)
}

func TestStart_ReopenResetsToClassSelection(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	first, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	first, err = f.svc.SelectClass(ctx, first.ID, "fighter")
	require.NoError(t, err)
	first, err = f.svc.ChooseSubclass(ctx, first.ID, "champion")
	require.NoError(t, err)
	_, err = f.svc.ChooseHP(ctx, first.ID, levelup.HPMethodMax)
	require.NoError(t, err)

	second, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "the session is kept")
	assert.Equal(t, levelup.StateSelectClass, second.State)
	assert.Empty(t, second.ClassKey)
	assert.Zero(t, second.HPGain)
}

func TestSelectClass_SubclassUnlockAtThree(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)

	// fighter 2 -> 3 unlocks the martial archetype
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseSubclass, session.State)
	assert.True(t, session.SubclassRequired)

	_, err = f.svc.ChooseSubclass(ctx, session.ID, "pie-baker")
	require.Error(t, err)
	assert.True(t, internalerrors.IsInvalidArgument(err))

	session, err = f.svc.ChooseSubclass(ctx, session.ID, "champion")
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseHP, session.State)
}

func TestSelectClass_ThirdClassRejected(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	two := f.character.Clone()
	two.ID = "char-two"
	two.Classes = []*character.ClassEntry{
		{ClassKey: "fighter", Level: 2},
		{ClassKey: "rogue", Level: 1},
	}
	two.Experience = 2700
	require.NoError(t, f.charRepo.Create(ctx, two))

	session, err := f.svc.Start(ctx, "char-two")
	require.NoError(t, err)

	_, err = f.svc.SelectClass(ctx, session.ID, "wizard")
	require.Error(t, err)
	assert.True(t, internalerrors.IsFailedPrecondition(err))

	// either existing class is still fine
	session, err = f.svc.SelectClass(ctx, session.ID, "rogue")
	require.NoError(t, err)
	assert.Equal(t, "rogue", session.ClassKey)
}

func TestChooseHP_RollIsRepeatable(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseSubclass(ctx, session.ID, "champion")
	require.NoError(t, err)

	f.roller.SetNextRoll(3)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodRoll)
	require.NoError(t, err)
	assert.Equal(t, 3, session.HPGain)
	assert.Equal(t, levelup.StateReady, session.State, "fighter 3 grants no improvement")

	// back out and take the average instead
	session, err = f.svc.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseHP, session.State)
	assert.Zero(t, session.HPGain)

	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)
	assert.Equal(t, 6, session.HPGain, "d10 average is 6")
}

func TestCommit_AppliesLevel(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseSubclass(ctx, session.ID, "champion")
	require.NoError(t, err)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)

	char, err := f.svc.Commit(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, char.Level())
	assert.Equal(t, "champion", char.Classes[0].SubclassKey)
	assert.Equal(t, []int{10, 6, 6}, char.HitPointRolls)
	assert.Equal(t, 3, char.HitDice["fighter"].Max)
	// 22 hit points + 6 rolled + 3 con for the new level
	assert.Equal(t, 31, char.HP.Max)
	assert.Equal(t, 31, char.HP.Current)

	_, err = f.svc.Get(ctx, session.ID)
	require.Error(t, err, "committed sessions are discarded")
	assert.True(t, internalerrors.IsNotFound(err))
}

func TestASI_ExactlyTwoPoints(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	// fighter 3 with XP for level 4, which is an improvement level
	char := f.character.Clone()
	char.ID = "char-asi"
	char.Classes = []*character.ClassEntry{{ClassKey: "fighter", Level: 3, SubclassKey: "champion"}}
	char.Experience = 2700
	char.HitPointRolls = []int{10, 6, 6}
	require.NoError(t, f.charRepo.Create(ctx, char))

	session, err := f.svc.Start(ctx, "char-asi")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	assert.True(t, session.ASIAvailable)
	assert.Equal(t, levelup.StateChooseHP, session.State, "subclass was already chosen")

	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseASIOrFeat, session.State)

	_, err = f.svc.ChooseASI(ctx, session.ID, map[shared.Attribute]int{shared.AttributeStrength: 1})
	require.Error(t, err, "one point is not an improvement")
	assert.True(t, internalerrors.IsValidation(err))

	_, err = f.svc.ChooseASI(ctx, session.ID, map[shared.Attribute]int{shared.AttributeStrength: 3})
	require.Error(t, err)

	session, err = f.svc.ChooseASI(ctx, session.ID, map[shared.Attribute]int{
		shared.AttributeStrength: 1,
		shared.AttributeWisdom:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, levelup.StateReady, session.State)

	updated, err := f.svc.Commit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, updated.Attributes[shared.AttributeStrength])
	assert.Equal(t, 14, updated.Attributes[shared.AttributeWisdom])
}

func TestFeat_PointGrantFlowsThroughPool(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	char := f.character.Clone()
	char.ID = "char-feat"
	char.Classes = []*character.ClassEntry{{ClassKey: "fighter", Level: 3, SubclassKey: "champion"}}
	char.Experience = 2700
	char.HitPointRolls = []int{10, 6, 6}
	require.NoError(t, f.charRepo.Create(ctx, char))

	session, err := f.svc.Start(ctx, "char-feat")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)

	session, err = f.svc.ChooseFeat(ctx, session.ID, "athlete")
	require.NoError(t, err)
	assert.Equal(t, levelup.StateAllocatePoints, session.State)
	assert.Equal(t, 1, session.PendingPoints)

	_, err = f.svc.AllocatePoints(ctx, session.ID, map[shared.Attribute]int{shared.AttributeWisdom: 1})
	require.Error(t, err, "athlete only raises strength or dexterity")
	assert.True(t, internalerrors.IsValidation(err))

	session, err = f.svc.AllocatePoints(ctx, session.ID, map[shared.Attribute]int{shared.AttributeDexterity: 1})
	require.NoError(t, err)
	assert.Equal(t, levelup.StateReady, session.State)

	updated, err := f.svc.Commit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasFeat("athlete"))
	assert.Equal(t, 13, updated.Attributes[shared.AttributeDexterity])
	assert.Zero(t, updated.AbilityPoints, "the grant is spent inside the commit")
}

func TestFeat_NoDuplicates(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	char := f.character.Clone()
	char.ID = "char-dup"
	char.Classes = []*character.ClassEntry{{ClassKey: "fighter", Level: 3, SubclassKey: "champion"}}
	char.Experience = 2700
	char.Feats = []string{"alert"}
	require.NoError(t, f.charRepo.Create(ctx, char))

	session, err := f.svc.Start(ctx, "char-dup")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)

	_, err = f.svc.ChooseFeat(ctx, session.ID, "alert")
	require.Error(t, err)
	assert.True(t, internalerrors.IsAlreadyExists(err))
}

func TestBack_ClearsAbandonedChoices(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	char := f.character.Clone()
	char.ID = "char-back"
	char.Classes = []*character.ClassEntry{{ClassKey: "fighter", Level: 3, SubclassKey: "champion"}}
	char.Experience = 2700
	require.NoError(t, f.charRepo.Create(ctx, char))

	session, err := f.svc.Start(ctx, "char-back")
	require.NoError(t, err)
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodMax)
	require.NoError(t, err)
	session, err = f.svc.ChooseFeat(ctx, session.ID, "athlete")
	require.NoError(t, err)
	session, err = f.svc.AllocatePoints(ctx, session.ID, map[shared.Attribute]int{shared.AttributeStrength: 1})
	require.NoError(t, err)
	require.Equal(t, levelup.StateReady, session.State)

	// walk all the way back to class selection; the first step undoes only
	// the point spend, the feat pick still stands
	session, err = f.svc.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateAllocatePoints, session.State)
	assert.Equal(t, "athlete", session.FeatKey)
	assert.Nil(t, session.PointAllocation)

	session, err = f.svc.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseASIOrFeat, session.State)
	assert.Empty(t, session.FeatKey)
	assert.Nil(t, session.PointAllocation)

	session, err = f.svc.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseHP, session.State)
	assert.Zero(t, session.HPGain)

	session, err = f.svc.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, levelup.StateSelectClass, session.State)
	assert.Empty(t, session.ClassKey)

	// redo the whole thing with the improvement instead; nothing from the
	// abandoned walk leaks into the commit
	session, err = f.svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodMax)
	require.NoError(t, err)
	session, err = f.svc.ChooseASI(ctx, session.ID, map[shared.Attribute]int{shared.AttributeStrength: 2})
	require.NoError(t, err)

	updated, err := f.svc.Commit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, updated.Attributes[shared.AttributeStrength])
	assert.False(t, updated.HasFeat("athlete"))
	assert.Zero(t, updated.AbilityPoints)
}

func TestFirstLevel_AlwaysFullDie(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	fresh := &character.Character{
		ID:      "char-fresh",
		OwnerID: "owner-1",
		Name:    "Newt",
		RaceKey: "human",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     10,
			shared.AttributeDexterity:    12,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 15,
			shared.AttributeWisdom:       13,
			shared.AttributeCharisma:     8,
		},
		Status: shared.CharacterStatusDraft,
	}
	require.NoError(t, f.charRepo.Create(ctx, fresh))

	session, err := f.svc.Start(ctx, "char-fresh")
	require.NoError(t, err, "the first level has no experience gate")
	assert.Equal(t, 1, session.TargetLevel)

	session, err = f.svc.SelectClass(ctx, session.ID, "wizard")
	require.NoError(t, err)
	assert.Equal(t, levelup.StateChooseHP, session.State, "wizard subclass unlocks at 2")

	session, err = f.svc.ChooseHP(ctx, session.ID, levelup.HPMethodRoll)
	require.NoError(t, err)
	assert.Equal(t, levelup.HPMethodMax, session.HPMethod, "a roll request is overridden at level 1")
	assert.Equal(t, 6, session.HPGain)

	char, err := f.svc.Commit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, char.Level())
	// full d6 plus con, with the human +1 pushing con 14 to 15
	assert.Equal(t, 8, char.HP.Max)
	assert.Equal(t, 8, char.HP.Current)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reset(ctx, "char-1", false)
	require.Error(t, err)
	assert.True(t, internalerrors.IsInvalidArgument(err))

	got, err := f.charRepo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level())
}

func TestReset_ReturnsToBaseline(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	// an open session is discarded along with the levels
	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)

	char, err := f.svc.Reset(ctx, "char-1", true)
	require.NoError(t, err)
	assert.Zero(t, char.Level())
	assert.Empty(t, char.Classes)
	assert.Empty(t, char.Feats)
	assert.Empty(t, char.HitPointRolls)
	assert.Equal(t, shared.CharacterStatusDraft, char.Status)
	assert.Equal(t, 900, char.Experience, "banked experience survives a reset")

	_, err = f.svc.Get(ctx, session.ID)
	require.Error(t, err)
	assert.True(t, internalerrors.IsNotFound(err))

	// the character can start over from level 1
	session, err = f.svc.Start(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.TargetLevel)
}

// interceptingRepo runs a hook on the first successful read after the hook
// is installed, so a test can inject work into the middle of a transaction
type interceptingRepo struct {
	characters.Repository
	hook func()
	once sync.Once
}

func (r *interceptingRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	char, err := r.Repository.Get(ctx, id)
	if err == nil && r.hook != nil {
		r.once.Do(r.hook)
	}
	return char, err
}

func TestCommit_SerializesWithCharacterMutations(t *testing.T) {
	ctx := context.Background()

	inner := characters.NewInMemoryRepository()
	repo := &interceptingRepo{Repository: inner}
	locker := characters.NewLocker()

	svc := NewService(&ServiceConfig{
		CharacterRepository: repo,
		SessionRepository:   levelups.NewInMemoryRepository(),
		Library:             rulebook.NewLibrary(),
		DiceRoller:          dice.NewMockRoller(),
		Locker:              locker,
	})
	charSvc := charactersvc.NewService(&charactersvc.ServiceConfig{
		Repository: inner,
		Locker:     locker,
	})

	char := &character.Character{
		ID:      "char-1",
		OwnerID: "owner-1",
		Name:    "Borin",
		RaceKey: "dwarf",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    12,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 10,
			shared.AttributeWisdom:       13,
			shared.AttributeCharisma:     8,
		},
		Classes:       []*character.ClassEntry{{ClassKey: "fighter", Level: 2}},
		Experience:    900,
		HitPointRolls: []int{10, 6},
		HitDice: map[string]*shared.HitDiceResource{
			"fighter": {DiceType: 10, Max: 2, Remaining: 2},
		},
		HP:     shared.HPResource{Current: 22, Max: 22},
		Status: shared.CharacterStatusActive,
	}
	require.NoError(t, inner.Create(ctx, char))

	session, err := svc.Start(ctx, "char-1")
	require.NoError(t, err)
	session, err = svc.SelectClass(ctx, session.ID, "fighter")
	require.NoError(t, err)
	session, err = svc.ChooseSubclass(ctx, session.ID, "champion")
	require.NoError(t, err)
	session, err = svc.ChooseHP(ctx, session.ID, levelup.HPMethodAverage)
	require.NoError(t, err)

	// fire a damage transaction while the commit is between its read and
	// its write; with both services on one locker it must wait its turn
	damageDone := make(chan error, 1)
	repo.hook = func() {
		go func() {
			_, err := charSvc.ApplyDamage(ctx, "char-1", 10)
			damageDone <- err
		}()
		time.Sleep(20 * time.Millisecond)
	}

	_, err = svc.Commit(ctx, session.ID)
	require.NoError(t, err)
	require.NoError(t, <-damageDone)

	got, err := inner.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 31, got.HP.Max)
	assert.Equal(t, 21, got.HP.Current, "the damage landed after the commit instead of being overwritten")
}

func TestCommit_RequiresReadyState(t *testing.T) {
	f := newLevelupFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "char-1")
	require.NoError(t, err)

	_, err = f.svc.Commit(ctx, session.ID)
	require.Error(t, err)
	assert.True(t, internalerrors.IsFailedPrecondition(err))

	got, err := f.charRepo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level(), "a failed commit never touches the character")
}
