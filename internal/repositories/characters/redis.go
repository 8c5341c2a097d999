package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

// EquipmentData wraps equipment with type information for JSON marshaling
type EquipmentData struct {
	Type      string          `json:"type"`
	Equipment json.RawMessage `json:"equipment"`
}

// CharacterData is the serialized form of a character in Redis
type CharacterData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	RealmID string `json:"realm_id"`
	Name    string `json:"name"`

	RaceKey       string `json:"race_key"`
	BackgroundKey string `json:"background_key,omitempty"`

	Attributes map[shared.Attribute]int `json:"attributes"`
	Classes    []*character.ClassEntry  `json:"classes"`
	Feats      []string                 `json:"feats,omitempty"`

	Experience    int `json:"experience"`
	AbilityPoints int `json:"ability_points"`

	HP            shared.HPResource                  `json:"hp"`
	HitPointRolls []int                              `json:"hit_point_rolls,omitempty"`
	HitDice       map[string]*shared.HitDiceResource `json:"hit_dice,omitempty"`
	DeathSaves    shared.DeathSaves                  `json:"death_saves"`

	SpellSlotsUsed map[int]int `json:"spell_slots_used,omitempty"`
	PactSlotsUsed  int         `json:"pact_slots_used,omitempty"`

	Inspiration bool `json:"inspiration"`
	Exhaustion  int  `json:"exhaustion"`

	ACOverride      *int `json:"ac_override,omitempty"`
	InitiativeBonus int  `json:"initiative_bonus"`

	SkillProficiencies  map[string]shared.ProficiencyLevel                   `json:"skill_proficiencies,omitempty"`
	SaveProficiencies   map[shared.Attribute]bool                            `json:"save_proficiencies,omitempty"`
	ManualProficiencies map[rulebook.ProficiencyType][]*rulebook.Proficiency `json:"manual_proficiencies,omitempty"`

	Languages  []string `json:"languages,omitempty"`
	Conditions []string `json:"conditions,omitempty"`

	Inventory     []EquipmentData               `json:"inventory,omitempty"`
	EquippedSlots map[shared.Slot]EquipmentData `json:"equipped_slots,omitempty"`
	Attuned       map[string]bool               `json:"attuned,omitempty"`

	ActiveEffects []*shared.ActiveEffect `json:"active_effects,omitempty"`

	Status shared.CharacterStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// redisRepo implements Repository backed by Redis
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	draftTTL      time.Duration
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator

	// DraftTTL is how long draft characters are kept; finalized characters
	// never expire.
	DraftTTL time.Duration
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewGoogleUUIDGenerator()
	}

	ttl := cfg.DraftTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		draftTTL:      ttl,
	}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func (r *redisRepo) ownerKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

func (r *redisRepo) ownerRealmKey(ownerID, realmID string) string {
	return fmt.Sprintf("owner:%s:realm:%s:characters", ownerID, realmID)
}

func equipmentToData(eq equipment.Equipment) (EquipmentData, error) {
	data, err := json.Marshal(eq)
	if err != nil {
		return EquipmentData{}, fmt.Errorf("failed to marshal equipment: %w", err)
	}

	var typeStr string
	switch eq.(type) {
	case *equipment.Weapon:
		typeStr = "weapon"
	case *equipment.Armor:
		typeStr = "armor"
	default:
		typeStr = "basic"
	}

	return EquipmentData{Type: typeStr, Equipment: data}, nil
}

func dataToEquipment(data EquipmentData) (equipment.Equipment, error) {
	switch data.Type {
	case "weapon":
		var weapon equipment.Weapon
		if err := json.Unmarshal(data.Equipment, &weapon); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weapon: %w", err)
		}
		return &weapon, nil
	case "armor":
		var armor equipment.Armor
		if err := json.Unmarshal(data.Equipment, &armor); err != nil {
			return nil, fmt.Errorf("failed to unmarshal armor: %w", err)
		}
		return &armor, nil
	default:
		var basic equipment.BasicEquipment
		if err := json.Unmarshal(data.Equipment, &basic); err != nil {
			return nil, fmt.Errorf("failed to unmarshal equipment of type %q: %w", data.Type, err)
		}
		return &basic, nil
	}
}

func toCharacterData(char *character.Character) (*CharacterData, error) {
	data := &CharacterData{
		ID:                  char.ID,
		OwnerID:             char.OwnerID,
		RealmID:             char.RealmID,
		Name:                char.Name,
		RaceKey:             char.RaceKey,
		BackgroundKey:       char.BackgroundKey,
		Attributes:          char.Attributes,
		Classes:             char.Classes,
		Feats:               char.Feats,
		Experience:          char.Experience,
		AbilityPoints:       char.AbilityPoints,
		HP:                  char.HP,
		HitPointRolls:       char.HitPointRolls,
		HitDice:             char.HitDice,
		DeathSaves:          char.DeathSaves,
		SpellSlotsUsed:      char.SpellSlotsUsed,
		PactSlotsUsed:       char.PactSlotsUsed,
		Inspiration:         char.Inspiration,
		Exhaustion:          char.Exhaustion,
		ACOverride:          char.ACOverride,
		InitiativeBonus:     char.InitiativeBonus,
		SkillProficiencies:  char.SkillProficiencies,
		SaveProficiencies:   char.SaveProficiencies,
		ManualProficiencies: char.ManualProficiencies,
		Languages:           char.Languages,
		Conditions:          char.Conditions,
		Attuned:             char.Attuned,
		ActiveEffects:       char.ActiveEffects,
		Status:              char.Status,
	}

	for _, item := range char.Inventory {
		ed, err := equipmentToData(item)
		if err != nil {
			return nil, err
		}
		data.Inventory = append(data.Inventory, ed)
	}

	if len(char.EquippedSlots) > 0 {
		data.EquippedSlots = make(map[shared.Slot]EquipmentData, len(char.EquippedSlots))
		for slot, item := range char.EquippedSlots {
			ed, err := equipmentToData(item)
			if err != nil {
				return nil, err
			}
			data.EquippedSlots[slot] = ed
		}
	}

	return data, nil
}

func fromCharacterData(data *CharacterData) (*character.Character, error) {
	char := &character.Character{
		ID:                  data.ID,
		OwnerID:             data.OwnerID,
		RealmID:             data.RealmID,
		Name:                data.Name,
		RaceKey:             data.RaceKey,
		BackgroundKey:       data.BackgroundKey,
		Attributes:          data.Attributes,
		Classes:             data.Classes,
		Feats:               data.Feats,
		Experience:          data.Experience,
		AbilityPoints:       data.AbilityPoints,
		HP:                  data.HP,
		HitPointRolls:       data.HitPointRolls,
		HitDice:             data.HitDice,
		DeathSaves:          data.DeathSaves,
		SpellSlotsUsed:      data.SpellSlotsUsed,
		PactSlotsUsed:       data.PactSlotsUsed,
		Inspiration:         data.Inspiration,
		Exhaustion:          data.Exhaustion,
		ACOverride:          data.ACOverride,
		InitiativeBonus:     data.InitiativeBonus,
		SkillProficiencies:  data.SkillProficiencies,
		SaveProficiencies:   data.SaveProficiencies,
		ManualProficiencies: data.ManualProficiencies,
		Languages:           data.Languages,
		Conditions:          data.Conditions,
		Attuned:             data.Attuned,
		ActiveEffects:       data.ActiveEffects,
		Status:              data.Status,
	}

	if char.Attributes == nil {
		char.Attributes = make(map[shared.Attribute]int)
	}

	for _, ed := range data.Inventory {
		item, err := dataToEquipment(ed)
		if err != nil {
			return nil, err
		}
		char.Inventory = append(char.Inventory, item)
	}

	if len(data.EquippedSlots) > 0 {
		char.EquippedSlots = make(map[shared.Slot]equipment.Equipment, len(data.EquippedSlots))
		for slot, ed := range data.EquippedSlots {
			item, err := dataToEquipment(ed)
			if err != nil {
				return nil, err
			}
			char.EquippedSlots[slot] = item
		}
	}

	return char, nil
}

// Create stores a new character. Draft characters expire after the
// configured TTL; anything else is kept until deleted.
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if char == nil {
		return internalerrors.InvalidArgument("character cannot be nil")
	}
	if char.OwnerID == "" {
		return internalerrors.InvalidArgument("character owner ID is required")
	}
	if char.ID == "" {
		char.ID = r.uuidGenerator.New()
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return internalerrors.AlreadyExists(fmt.Sprintf("character with ID '%s' already exists", char.ID)).
			WithMeta("character_id", char.ID)
	}

	data, err := toCharacterData(char)
	if err != nil {
		return fmt.Errorf("failed to convert character data: %w", err)
	}
	data.CreatedAt = time.Now().UTC()
	data.UpdatedAt = data.CreatedAt

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	ttl := time.Duration(0)
	if char.Status == shared.CharacterStatusDraft {
		ttl = r.draftTTL
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), jsonData, ttl)
	pipe.SAdd(ctx, r.ownerKey(char.OwnerID), char.ID)
	if char.RealmID != "" {
		pipe.SAdd(ctx, r.ownerRealmKey(char.OwnerID, char.RealmID), char.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, internalerrors.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, internalerrors.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data CharacterData
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", unmarshalErr)
	}

	char, err := fromCharacterData(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert character from data: %w", err)
	}
	return char, nil
}

// GetByOwner retrieves all characters for a specific owner
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, internalerrors.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	return r.getAll(ctx, ids)
}

// GetByOwnerAndRealm retrieves all characters for a specific owner in a realm
func (r *redisRepo) GetByOwnerAndRealm(ctx context.Context, ownerID, realmID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, internalerrors.InvalidArgument("owner ID is required")
	}
	if realmID == "" {
		return nil, internalerrors.InvalidArgument("realm ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerRealmKey(ownerID, realmID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	return r.getAll(ctx, ids)
}

func (r *redisRepo) getAll(ctx context.Context, ids []string) ([]*character.Character, error) {
	chars := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		char, err := r.Get(ctx, id)
		if err != nil {
			// expired drafts leave dangling index entries; skip them
			if internalerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		chars = append(chars, char)
	}
	return chars, nil
}

// Update overwrites an existing character
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if char == nil {
		return internalerrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return internalerrors.InvalidArgument("character ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists == 0 {
		return internalerrors.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	data, err := toCharacterData(char)
	if err != nil {
		return fmt.Errorf("failed to convert character data: %w", err)
	}
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	ttl := time.Duration(0)
	if char.Status == shared.CharacterStatusDraft {
		ttl = r.draftTTL
	}

	if err := r.client.Set(ctx, r.key(char.ID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

// Delete removes a character and its index entries
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return internalerrors.InvalidArgument("character ID is required")
	}

	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerKey(char.OwnerID), id)
	if char.RealmID != "" {
		pipe.SRem(ctx, r.ownerRealmKey(char.OwnerID, char.RealmID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}
