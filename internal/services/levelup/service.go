package levelup

import (
	"context"
	"time"

	"github.com/ironrations/charsheet/internal/dice"
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/levelup"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	"github.com/ironrations/charsheet/internal/engine"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/repositories/characters"
	"github.com/ironrations/charsheet/internal/repositories/levelups"
	"github.com/ironrations/charsheet/internal/uuid"
)

// MaxClasses caps how many classes a character can multiclass into
const MaxClasses = 2

// asiPoints is the size of a standard ability score improvement
const asiPoints = 2

type service struct {
	characterRepo characters.Repository
	sessionRepo   levelups.Repository
	library       *rulebook.Library
	diceRoller    dice.Roller
	uuidGenerator uuid.Generator
	locker        *characters.Locker
}

// ServiceConfig holds configuration for the level-up service
type ServiceConfig struct {
	CharacterRepository characters.Repository
	SessionRepository   levelups.Repository
	Library             *rulebook.Library
	DiceRoller          dice.Roller
	UUIDGenerator       uuid.Generator

	// Locker must be the same instance the character service uses, so a
	// commit and a concurrent mutation on the same character serialize
	Locker *characters.Locker
}

// NewService creates a new level-up service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.SessionRepository == nil {
		panic("session repository is required")
	}

	svc := &service{
		characterRepo: cfg.CharacterRepository,
		sessionRepo:   cfg.SessionRepository,
		library:       cfg.Library,
		diceRoller:    cfg.DiceRoller,
		uuidGenerator: cfg.UUIDGenerator,
		locker:        cfg.Locker,
	}

	if svc.library == nil {
		svc.library = rulebook.NewLibrary()
	}
	if svc.diceRoller == nil {
		svc.diceRoller = dice.NewRandomRoller()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.locker == nil {
		svc.locker = characters.NewLocker()
	}

	return svc
}

func (s *service) Start(ctx context.Context, characterID string) (*levelup.Session, error) {
	char, err := s.characterRepo.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	// re-opening the wizard keeps the session but drops every transient
	// choice; it always resumes at class selection
	if existing, err := s.sessionRepo.GetByCharacter(ctx, characterID); err == nil {
		existing.ClearClassChoices()
		existing.State = levelup.StateSelectClass
		return s.save(ctx, existing)
	} else if !internalerrors.IsNotFound(err) {
		return nil, err
	}

	level := char.Level()
	if level >= rulebook.MaxLevel {
		return nil, internalerrors.FailedPreconditionf("%s is already at the level cap", char.Name)
	}

	// the first level needs no experience; every later level is gated on the
	// banked total
	if level > 0 && char.Experience < rulebook.XPForLevel(level+1) {
		return nil, internalerrors.FailedPreconditionf(
			"level %d requires %d XP, %s has %d",
			level+1, rulebook.XPForLevel(level+1), char.Name, char.Experience)
	}

	now := time.Now().UTC()
	session := &levelup.Session{
		ID:          s.uuidGenerator.New(),
		CharacterID: char.ID,
		OwnerID:     char.OwnerID,
		State:       levelup.StateSelectClass,
		TargetLevel: level + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*levelup.Session, error) {
	return s.sessionRepo.Get(ctx, sessionID)
}

func (s *service) SelectClass(ctx context.Context, sessionID, classKey string) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateSelectClass {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not class selection", session.State)
	}

	class, ok := s.library.Class(classKey)
	if !ok {
		return nil, internalerrors.InvalidArgumentf("unknown class %q", classKey)
	}

	char, err := s.characterRepo.Get(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	entry := char.ClassEntry(classKey)
	if entry == nil && len(char.Classes) >= MaxClasses {
		return nil, internalerrors.FailedPreconditionf("cannot take a third class; %s already has %d", char.Name, len(char.Classes))
	}

	newClassLevel := 1
	if entry != nil {
		newClassLevel = entry.Level + 1
	}

	session.ClearClassChoices()
	session.ClassKey = classKey
	session.ASIAvailable = class.GrantsASIAt(newClassLevel)
	session.SubclassRequired = newClassLevel == class.SubclassLevel &&
		(entry == nil || entry.SubclassKey == "")

	if session.SubclassRequired {
		session.State = levelup.StateChooseSubclass
	} else {
		session.State = levelup.StateChooseHP
	}

	return s.save(ctx, session)
}

func (s *service) ChooseSubclass(ctx context.Context, sessionID, subclassKey string) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateChooseSubclass {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not subclass selection", session.State)
	}

	class, ok := s.library.Class(session.ClassKey)
	if !ok {
		return nil, internalerrors.Internalf("session references unknown class %q", session.ClassKey)
	}
	if class.SubclassByKey(subclassKey) == nil {
		return nil, internalerrors.InvalidArgumentf("class %s has no subclass %q", class.Key, subclassKey)
	}

	session.SubclassKey = subclassKey
	session.State = levelup.StateChooseHP
	return s.save(ctx, session)
}

func (s *service) ChooseHP(ctx context.Context, sessionID string, method levelup.HPMethod) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateChooseHP {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not hit point selection", session.State)
	}

	class, ok := s.library.Class(session.ClassKey)
	if !ok {
		return nil, internalerrors.Internalf("session references unknown class %q", session.ClassKey)
	}

	// the very first character level always takes the full die
	if session.TargetLevel == 1 {
		method = levelup.HPMethodMax
	}

	switch method {
	case levelup.HPMethodMax:
		session.HPGain = class.HitDie
	case levelup.HPMethodAverage:
		session.HPGain = class.HitDie/2 + 1
	case levelup.HPMethodRoll:
		result, err := s.diceRoller.Roll(1, class.HitDie, 0)
		if err != nil {
			return nil, internalerrors.Wrap(err, "rolling hit points")
		}
		session.HPGain = result.Total
	default:
		return nil, internalerrors.InvalidArgumentf("unknown hit point method %q", method)
	}

	session.HPMethod = method
	if session.ASIAvailable {
		session.State = levelup.StateChooseASIOrFeat
	} else {
		session.State = levelup.StateReady
	}
	return s.save(ctx, session)
}

func (s *service) ChooseASI(ctx context.Context, sessionID string, allocation map[shared.Attribute]int) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateChooseASIOrFeat {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not the improvement step", session.State)
	}

	char, err := s.characterRepo.Get(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	total := 0
	for attr, amount := range allocation {
		if amount <= 0 {
			return nil, internalerrors.Validationf("allocation for %s must be positive", attr)
		}
		if attr.Name() == "" {
			return nil, internalerrors.Validationf("unknown ability %q", attr)
		}
		if char.Attributes[attr]+amount > shared.AbilityScoreCap {
			return nil, internalerrors.Validationf("%s would exceed %d", attr.Name(), shared.AbilityScoreCap)
		}
		total += amount
	}
	if total != asiPoints {
		return nil, internalerrors.Validationf("an improvement spends exactly %d points, got %d", asiPoints, total)
	}

	session.ClearASIChoice()
	session.ASIAllocation = allocation
	session.State = levelup.StateReady
	return s.save(ctx, session)
}

func (s *service) ChooseFeat(ctx context.Context, sessionID, featKey string) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateChooseASIOrFeat {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not the improvement step", session.State)
	}

	feat, ok := s.library.Feat(featKey)
	if !ok {
		return nil, internalerrors.InvalidArgumentf("unknown feat %q", featKey)
	}

	char, err := s.characterRepo.Get(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}
	if char.HasFeat(featKey) {
		return nil, internalerrors.AlreadyExists("character already has the " + feat.Name + " feat")
	}

	session.ClearASIChoice()
	session.FeatKey = featKey

	if points, allowed, ok := feat.PointGrant(); ok {
		session.PendingPoints = points
		session.AllowedAbilities = allowed
		session.State = levelup.StateAllocatePoints
	} else {
		session.State = levelup.StateReady
	}
	return s.save(ctx, session)
}

func (s *service) AllocatePoints(ctx context.Context, sessionID string, allocation map[shared.Attribute]int) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateAllocatePoints {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not point allocation", session.State)
	}

	char, err := s.characterRepo.Get(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	total := 0
	for attr, amount := range allocation {
		if amount <= 0 {
			return nil, internalerrors.Validationf("allocation for %s must be positive", attr)
		}
		if !attributeAllowed(attr, session.AllowedAbilities) {
			return nil, internalerrors.Validationf("the chosen feat cannot raise %s", attr.Name())
		}
		if char.Attributes[attr]+amount > shared.AbilityScoreCap {
			return nil, internalerrors.Validationf("%s would exceed %d", attr.Name(), shared.AbilityScoreCap)
		}
		total += amount
	}
	if total != session.PendingPoints {
		return nil, internalerrors.Validationf("allocation spends %d of %d points; all of them must be spent", total, session.PendingPoints)
	}

	session.PointAllocation = allocation
	session.State = levelup.StateReady
	return s.save(ctx, session)
}

// attributeAllowed checks a feat's ability restriction; a nil list means any
func attributeAllowed(attr shared.Attribute, allowed []shared.Attribute) bool {
	if len(allowed) == 0 {
		return attr.Name() != ""
	}
	for _, a := range allowed {
		if a == attr {
			return true
		}
	}
	return false
}

func (s *service) Back(ctx context.Context, sessionID string) (*levelup.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case levelup.StateChooseSubclass:
		session.ClearClassChoices()
		session.State = levelup.StateSelectClass
	case levelup.StateChooseHP:
		if session.SubclassRequired {
			session.SubclassKey = ""
			session.State = levelup.StateChooseSubclass
		} else {
			session.ClearClassChoices()
			session.State = levelup.StateSelectClass
		}
	case levelup.StateChooseASIOrFeat:
		session.ClearHPChoice()
		session.State = levelup.StateChooseHP
	case levelup.StateAllocatePoints:
		session.ClearASIChoice()
		session.State = levelup.StateChooseASIOrFeat
	case levelup.StateReady:
		switch {
		case session.PendingPoints > 0:
			// ready was reached through a point allocation; only the spend
			// is redone, the feat pick stands
			session.PointAllocation = nil
			session.State = levelup.StateAllocatePoints
		case session.ASIAvailable:
			session.ClearASIChoice()
			session.State = levelup.StateChooseASIOrFeat
		default:
			session.ClearHPChoice()
			session.State = levelup.StateChooseHP
		}
	default:
		return nil, internalerrors.FailedPreconditionf("cannot back out of %s", session.State)
	}

	return s.save(ctx, session)
}

// Commit applies the session to the character. All validation runs against a
// detached copy first, so a failed commit never leaves a half-applied level.
func (s *service) Commit(ctx context.Context, sessionID string) (*character.Character, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != levelup.StateReady {
		return nil, internalerrors.FailedPreconditionf("session is at %s, not ready to commit", session.State)
	}

	class, ok := s.library.Class(session.ClassKey)
	if !ok {
		return nil, internalerrors.Internalf("session references unknown class %q", session.ClassKey)
	}

	// the whole read-modify-write holds the character's lock so a concurrent
	// mutation from the character service cannot land between the read and
	// the write and be silently overwritten
	mu := s.locker.For(session.CharacterID)
	mu.Lock()
	defer mu.Unlock()

	char, err := s.characterRepo.Get(ctx, session.CharacterID)
	if err != nil {
		return nil, err
	}

	if char.Level()+1 != session.TargetLevel {
		return nil, internalerrors.FailedPreconditionf(
			"session targets level %d but %s is level %d", session.TargetLevel, char.Name, char.Level())
	}

	// ability score improvement
	for attr, amount := range session.ASIAllocation {
		if char.Attributes[attr]+amount > shared.AbilityScoreCap {
			return nil, internalerrors.Validationf("%s would exceed %d", attr.Name(), shared.AbilityScoreCap)
		}
	}
	for attr, amount := range session.ASIAllocation {
		char.Attributes[attr] += amount
	}

	// feat point grant goes through the pool, spent in the same transaction
	if session.FeatKey != "" {
		if char.HasFeat(session.FeatKey) {
			return nil, internalerrors.AlreadyExists("character already has feat " + session.FeatKey)
		}

		if session.PendingPoints > 0 {
			char.GrantAbilityPoints(session.PendingPoints)
			if err := char.SpendAbilityPoints(session.PointAllocation); err != nil {
				// send the wizard back to fix the allocation; the stored
				// character was never written
				session.State = levelup.StateAllocatePoints
				session.PointAllocation = nil
				if _, saveErr := s.save(ctx, session); saveErr != nil {
					return nil, saveErr
				}
				return nil, err
			}
		}

		char.Feats = append(char.Feats, session.FeatKey)
	}

	// the class level itself
	entry := char.ClassEntry(session.ClassKey)
	if entry != nil {
		entry.Level++
		if entry.SubclassKey == "" && session.SubclassKey != "" {
			entry.SubclassKey = session.SubclassKey
		}
	} else {
		char.Classes = append(char.Classes, &character.ClassEntry{
			ClassKey:    session.ClassKey,
			Level:       1,
			SubclassKey: session.SubclassKey,
		})
	}

	// hit points and the hit die pool
	char.HitPointRolls = append(char.HitPointRolls, session.HPGain)
	if char.HitDice == nil {
		char.HitDice = make(map[string]*shared.HitDiceResource)
	}
	if pool, ok := char.HitDice[session.ClassKey]; ok {
		pool.Max++
		pool.Remaining++
	} else {
		char.HitDice[session.ClassKey] = &shared.HitDiceResource{DiceType: class.HitDie, Max: 1, Remaining: 1}
	}

	oldMax := char.HP.Max
	sheet := engine.ComputeSheet(char, s.library)
	char.HP.Max = sheet.MaxHP
	if gained := char.HP.Max - oldMax; gained > 0 {
		char.HP.Current += gained
	}
	if char.HP.Current > char.HP.Max {
		char.HP.Current = char.HP.Max
	}
	// the first committed level activates a draft
	if char.Status == "" || char.Status == shared.CharacterStatusDraft {
		char.Status = shared.CharacterStatusActive
	}

	if err := s.characterRepo.Update(ctx, char); err != nil {
		return nil, err
	}

	session.State = levelup.StateCommitted
	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	return char, nil
}

func (s *service) Cancel(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Reset tears the character back to the pre-first-level baseline. Base
// ability scores keep any improvements already baked in; there is no per-level
// history to unwind them from.
func (s *service) Reset(ctx context.Context, characterID string, confirm bool) (*character.Character, error) {
	if !confirm {
		return nil, internalerrors.InvalidArgument("reset is irreversible and must be confirmed")
	}

	mu := s.locker.For(characterID)
	mu.Lock()
	defer mu.Unlock()

	char, err := s.characterRepo.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if session, err := s.sessionRepo.GetByCharacter(ctx, characterID); err == nil {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
	} else if !internalerrors.IsNotFound(err) {
		return nil, err
	}

	char.Classes = nil
	char.Feats = nil
	char.HitPointRolls = nil
	char.HitDice = nil
	char.AbilityPoints = 0
	char.SpellSlotsUsed = nil
	char.PactSlotsUsed = 0
	char.DeathSaves.Reset()
	char.Status = shared.CharacterStatusDraft

	// zero the pools before recomputing; the sheet floors its max at what
	// the character is currently holding
	char.HP.Current = 0
	char.HP.Temporary = 0
	sheet := engine.ComputeSheet(char, s.library)
	char.HP.Max = sheet.MaxHP
	char.HP.Current = char.HP.Max

	if err := s.characterRepo.Update(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

func (s *service) save(ctx context.Context, session *levelup.Session) (*levelup.Session, error) {
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
