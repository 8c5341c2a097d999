package levelups

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironrations/charsheet/internal/domain/levelup"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

// redisRepo implements Repository backed by Redis. Every session is written
// with a TTL so abandoned wizards clean themselves up.
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	ttl           time.Duration
}

// RedisRepoConfig holds configuration for the Redis session repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	SessionTTL    time.Duration
}

// NewRedisRepository creates a Redis-backed level-up session repository
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

	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = 4 * time.Hour
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		ttl:           ttl,
	}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("levelup:%s", id)
}

func (r *redisRepo) characterKey(characterID string) string {
	return fmt.Sprintf("character:%s:levelup", characterID)
}

// Put stores or replaces a session
func (r *redisRepo) Put(ctx context.Context, session *levelup.Session) error {
	if session == nil {
		return internalerrors.InvalidArgument("session cannot be nil")
	}
	if session.CharacterID == "" {
		return internalerrors.InvalidArgument("session character ID is required")
	}
	if session.ID == "" {
		session.ID = r.uuidGenerator.New()
		session.CreatedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(session.ID), jsonData, r.ttl)
	pipe.Set(ctx, r.characterKey(session.CharacterID), session.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*levelup.Session, error) {
	if id == "" {
		return nil, internalerrors.InvalidArgument("session ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, internalerrors.NotFoundf("level-up session '%s' not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session levelup.Session
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &session); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", unmarshalErr)
	}

	return &session, nil
}

// GetByCharacter retrieves the active session for a character
func (r *redisRepo) GetByCharacter(ctx context.Context, characterID string) (*levelup.Session, error) {
	if characterID == "" {
		return nil, internalerrors.InvalidArgument("character ID is required")
	}

	id, err := r.client.Get(ctx, r.characterKey(characterID)).Result()
	if err == redis.Nil {
		return nil, internalerrors.NotFoundf("no level-up session for character '%s'", characterID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return r.Get(ctx, id)
}

// Delete removes a session and its character pointer
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return internalerrors.InvalidArgument("session ID is required")
	}

	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.Del(ctx, r.characterKey(session.CharacterID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
