package characters

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mock redismock.ClientMock
	repo *redisRepo
}

func (s *RedisRepoTestSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	s.repo = &redisRepo{
		client:        client,
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
		draftTTL:      24 * time.Hour,
	}
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) testCharacter() *character.Character {
	return &character.Character{
		ID:      "test-id",
		OwnerID: "owner-id",
		RealmID: "realm-id",
		Name:    "Test Character",
		RaceKey: "human",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    14,
			shared.AttributeConstitution: 15,
			shared.AttributeIntelligence: 10,
			shared.AttributeWisdom:       12,
			shared.AttributeCharisma:     8,
		},
		Classes: []*character.ClassEntry{
			{ClassKey: "fighter", Level: 1},
		},
		HitPointRolls: []int{10},
		HP:            shared.HPResource{Current: 12, Max: 12},
		Status:        shared.CharacterStatusActive,
	}
}

func (s *RedisRepoTestSuite) TestCreate_HappyPath() {
	char := s.testCharacter()

	s.mock.ExpectExists("character:test-id").SetVal(0)
	s.mock.Regexp().ExpectSet("character:test-id", `.*`, 0).SetVal("OK")
	s.mock.ExpectSAdd("owner:owner-id:characters", "test-id").SetVal(1)
	s.mock.ExpectSAdd("owner:owner-id:realm:realm-id:characters", "test-id").SetVal(1)

	s.NoError(s.repo.Create(context.Background(), char))
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	char := s.testCharacter()

	s.mock.ExpectExists("character:test-id").SetVal(1)

	err := s.repo.Create(context.Background(), char)
	s.Error(err)
	s.True(internalerrors.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreate_MissingOwner() {
	char := s.testCharacter()
	char.OwnerID = ""

	err := s.repo.Create(context.Background(), char)
	s.Error(err)
	s.True(internalerrors.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet_HappyPath() {
	char := s.testCharacter()
	data, err := toCharacterData(char)
	s.Require().NoError(err)
	jsonData, err := json.Marshal(data)
	s.Require().NoError(err)

	s.mock.ExpectGet("character:test-id").SetVal(string(jsonData))

	got, err := s.repo.Get(context.Background(), "test-id")
	s.Require().NoError(err)
	s.Equal(char.ID, got.ID)
	s.Equal(char.Name, got.Name)
	s.Equal(char.Attributes, got.Attributes)
	s.Equal(char.HP, got.HP)
	s.Require().Len(got.Classes, 1)
	s.Equal("fighter", got.Classes[0].ClassKey)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("character:missing").RedisNil()

	_, err := s.repo.Get(context.Background(), "missing")
	s.Error(err)
	s.True(internalerrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestUpdate_NotFound() {
	char := s.testCharacter()

	s.mock.ExpectExists("character:test-id").SetVal(0)

	err := s.repo.Update(context.Background(), char)
	s.Error(err)
	s.True(internalerrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestUpdate_DraftGetsTTL() {
	char := s.testCharacter()
	char.Status = shared.CharacterStatusDraft

	s.mock.ExpectExists("character:test-id").SetVal(1)
	s.mock.Regexp().ExpectSet("character:test-id", `.*`, 24*time.Hour).SetVal("OK")

	s.NoError(s.repo.Update(context.Background(), char))
}

func (s *RedisRepoTestSuite) TestDelete_HappyPath() {
	char := s.testCharacter()
	data, err := toCharacterData(char)
	s.Require().NoError(err)
	jsonData, err := json.Marshal(data)
	s.Require().NoError(err)

	s.mock.ExpectGet("character:test-id").SetVal(string(jsonData))
	s.mock.ExpectDel("character:test-id").SetVal(1)
	s.mock.ExpectSRem("owner:owner-id:characters", "test-id").SetVal(1)
	s.mock.ExpectSRem("owner:owner-id:realm:realm-id:characters", "test-id").SetVal(1)

	s.NoError(s.repo.Delete(context.Background(), "test-id"))
}
