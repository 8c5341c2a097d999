package character

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironrations/charsheet/internal/dice"
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/repositories/characters"
)

type serviceFixture struct {
	svc    Service
	repo   characters.Repository
	roller *dice.MockRoller
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := characters.NewInMemoryRepository()
	roller := dice.NewMockRoller()
	svc := NewService(&ServiceConfig{
		Repository: repo,
		Library:    rulebook.NewLibrary(),
		DiceRoller: roller,
	})

	return &serviceFixture{svc: svc, repo: repo, roller: roller}
}

func standardScores() map[shared.Attribute]int {
	return map[shared.Attribute]int{
		shared.AttributeStrength:     16,
		shared.AttributeDexterity:    12,
		shared.AttributeConstitution: 14,
		shared.AttributeIntelligence: 10,
		shared.AttributeWisdom:       13,
		shared.AttributeCharisma:     8,
	}
}

func (f *serviceFixture) createFighter(t *testing.T) *character.Character {
	t.Helper()

	char, err := f.svc.Create(context.Background(), &CreateInput{
		OwnerID:    "owner-1",
		RealmID:    "realm-1",
		Name:       "Borin",
		RaceKey:    "dwarf",
		ClassKey:   "fighter",
		Attributes: standardScores(),
		Skills:     []string{shared.SkillAthletics, shared.SkillPerception},
	})
	require.NoError(t, err)
	return char
}

func TestCreate_FirstLevelHPIsMaxDie(t *testing.T) {
	f := newServiceFixture(t)

	char := f.createFighter(t)

	// d10 fighter, con 14 raised to 16 by the dwarf bonus
	assert.Equal(t, []int{10}, char.HitPointRolls)
	assert.Equal(t, 13, char.HP.Max)
	assert.Equal(t, 13, char.HP.Current)
	assert.Equal(t, 1, char.Level())
	assert.Equal(t, shared.CharacterStatusActive, char.Status)
	assert.Equal(t, shared.ProficiencyLevelProficient, char.SkillProficiencies[shared.SkillAthletics])
}

func TestCreate_RejectsBadInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &CreateInput{
		OwnerID: "owner-1", Name: "X", RaceKey: "dwarf", ClassKey: "bloodhunter",
		Attributes: standardScores(),
	})
	require.Error(t, err)
	assert.True(t, internalerrors.IsInvalidArgument(err))

	scores := standardScores()
	delete(scores, shared.AttributeWisdom)
	_, err = f.svc.Create(ctx, &CreateInput{
		OwnerID: "owner-1", Name: "X", RaceKey: "dwarf", ClassKey: "fighter",
		Attributes: scores,
	})
	require.Error(t, err)
	assert.True(t, internalerrors.IsValidation(err))

	_, err = f.svc.Create(ctx, &CreateInput{
		OwnerID: "owner-1", Name: "X", RaceKey: "dwarf", ClassKey: "fighter",
		Attributes: standardScores(),
		Skills:     []string{shared.SkillArcana},
	})
	require.Error(t, err, "arcana is not on the fighter list")
	assert.True(t, internalerrors.IsValidation(err))
}

func TestApplyDamage_PersistsAcrossReads(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	updated, err := f.svc.ApplyDamage(ctx, char.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.HP.Current)

	got, err := f.svc.Get(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.HP.Current)
}

func TestSpendAbilityPoints_RetroactivelyRaisesMaxHP(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	require.NoError(t, f.svc.GrantAbilityPoints(ctx, char.ID, 2))

	updated, err := f.svc.SpendAbilityPoints(ctx, char.ID, map[shared.Attribute]int{
		shared.AttributeConstitution: 2,
	})
	require.NoError(t, err)

	// base con 14 + 2 spent; the dwarf bonus brings the effective score to 18
	assert.Equal(t, 16, updated.Attributes[shared.AttributeConstitution])
	assert.Equal(t, 14, updated.HP.Max, "modifier went from +3 to +4")
	assert.Equal(t, 0, updated.AbilityPoints)

	sheet, err := f.svc.Sheet(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, sheet.Abilities[shared.AttributeConstitution].Score)
}

func TestSpendAbilityPoints_PartialSpendRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	require.NoError(t, f.svc.GrantAbilityPoints(ctx, char.ID, 2))

	_, err := f.svc.SpendAbilityPoints(ctx, char.ID, map[shared.Attribute]int{
		shared.AttributeStrength: 1,
	})
	require.Error(t, err)
	assert.True(t, internalerrors.IsValidation(err))

	got, err := f.svc.Get(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AbilityPoints, "failed spend must not drain the pool")
	assert.Equal(t, 16, got.Attributes[shared.AttributeStrength])
}

func TestUseHitDie_HealsWithConModifier(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	_, err := f.svc.ApplyDamage(ctx, char.ID, 10)
	require.NoError(t, err)

	f.roller.SetNextRoll(6)
	healed, err := f.svc.UseHitDie(ctx, char.ID, "fighter")
	require.NoError(t, err)
	assert.Equal(t, 9, healed, "rolled 6 plus con modifier 3")

	_, err = f.svc.UseHitDie(ctx, char.ID, "fighter")
	require.Error(t, err, "level 1 has a single hit die")
	assert.True(t, internalerrors.IsFailedPrecondition(err))
}

func TestUseSpellSlot_TracksAndRestores(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	char, err := f.svc.Create(ctx, &CreateInput{
		OwnerID:    "owner-1",
		Name:       "Mora",
		RaceKey:    "elf",
		ClassKey:   "wizard",
		Attributes: standardScores(),
	})
	require.NoError(t, err)

	// wizard 1 has two level 1 slots
	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, false)
	require.NoError(t, err)
	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, false)
	require.NoError(t, err)
	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, false)
	require.Error(t, err)
	assert.True(t, internalerrors.IsFailedPrecondition(err))

	_, err = f.svc.UseSpellSlot(ctx, char.ID, 2, false)
	require.Error(t, err, "no level 2 slots at wizard 1")

	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, true)
	require.Error(t, err, "wizards have no pact magic")

	updated, err := f.svc.LongRest(ctx, char.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.SpellSlotsUsed)

	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, false)
	require.NoError(t, err)
}

func TestShortRest_RecoversPactSlotsOnly(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	char, err := f.svc.Create(ctx, &CreateInput{
		OwnerID:    "owner-1",
		Name:       "Vex",
		RaceKey:    "tiefling",
		ClassKey:   "warlock",
		Attributes: standardScores(),
	})
	require.NoError(t, err)

	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, true)
	require.NoError(t, err)
	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, true)
	require.Error(t, err, "warlock 1 has one pact slot")

	updated, err := f.svc.ShortRest(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PactSlotsUsed)

	_, err = f.svc.UseSpellSlot(ctx, char.ID, 1, true)
	require.NoError(t, err)
}

func TestEquipAndSheet_ReflectsArmor(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	err := f.svc.AddToInventory(ctx, char.ID, &equipment.Armor{
		Base:          equipment.BasicEquipment{Key: "chain-mail", Name: "Chain Mail"},
		ArmorCategory: equipment.ArmorCategoryHeavy,
		ArmorClass:    &equipment.ArmorClass{Base: 16},
	})
	require.NoError(t, err)

	_, err = f.svc.Equip(ctx, char.ID, "chain-mail")
	require.NoError(t, err)

	sheet, err := f.svc.Sheet(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, 16, sheet.AC.Value)
	assert.False(t, sheet.AC.NotProficient, "fighters wear heavy armor")
}

func TestEffects_AttachDetachRoundTrip(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	before, err := f.svc.Sheet(ctx, char.ID)
	require.NoError(t, err)

	attached, err := f.svc.AttachEffect(ctx, char.ID, &shared.ActiveEffect{
		Name:         "Haste",
		DurationType: shared.DurationTypeMinutes,
		Duration:     1,
		EffectModifiers: []shared.Modifier{
			{Type: shared.ModifierBonus, Target: shared.TargetAC, Value: 2},
			{Type: shared.ModifierBonus, Target: shared.TargetSpeed, Value: 25},
		},
	})
	require.NoError(t, err)
	require.Len(t, attached.ActiveEffects, 1)
	effectID := attached.ActiveEffects[0].ID

	during, err := f.svc.Sheet(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, before.AC.Value+2, during.AC.Value)
	assert.Equal(t, before.Speed+25, during.Speed)

	_, err = f.svc.RemoveEffect(ctx, char.ID, effectID)
	require.NoError(t, err)

	after, err := f.svc.Sheet(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "detaching restores every derived value")

	_, err = f.svc.RemoveEffect(ctx, char.ID, effectID)
	require.Error(t, err)
	assert.True(t, internalerrors.IsNotFound(err))
}

func TestAddExperience_RejectsNegative(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := f.createFighter(t)

	updated, err := f.svc.AddExperience(ctx, char.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, updated.Experience)

	_, err = f.svc.AddExperience(ctx, char.ID, -50)
	require.Error(t, err)
	assert.True(t, internalerrors.IsInvalidArgument(err))
}

func TestMutations_UnknownCharacter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApplyDamage(ctx, "nope", 3)
	require.Error(t, err)
	assert.True(t, internalerrors.IsNotFound(err))

	_, err = f.svc.Heal(ctx, "", 3)
	require.Error(t, err)
	assert.True(t, internalerrors.IsInvalidArgument(err))
}
