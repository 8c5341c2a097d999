package levelups

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironrations/charsheet/internal/domain/levelup"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

func newMockedRepo(t *testing.T) (*redisRepo, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	repo := &redisRepo{
		client:        client,
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
		ttl:           4 * time.Hour,
	}
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return repo, mock
}

func testSession() *levelup.Session {
	return &levelup.Session{
		ID:          "sess-1",
		CharacterID: "char-1",
		OwnerID:     "user-1",
		State:       levelup.StateChooseHP,
		TargetLevel: 4,
		ClassKey:    "fighter",
	}
}

func TestPut_WritesSessionAndPointer(t *testing.T) {
	repo, mock := newMockedRepo(t)
	session := testSession()

	mock.Regexp().ExpectSet("levelup:sess-1", `.*`, 4*time.Hour).SetVal("OK")
	mock.ExpectSet("character:char-1:levelup", "sess-1", 4*time.Hour).SetVal("OK")

	require.NoError(t, repo.Put(context.Background(), session))
}

func TestGet_RoundTrip(t *testing.T) {
	repo, mock := newMockedRepo(t)
	session := testSession()
	session.ASIAllocation = map[shared.Attribute]int{shared.AttributeStrength: 2}

	jsonData, err := json.Marshal(session)
	require.NoError(t, err)
	mock.ExpectGet("levelup:sess-1").SetVal(string(jsonData))

	got, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.State, got.State)
	assert.Equal(t, session.ASIAllocation, got.ASIAllocation)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMockedRepo(t)
	mock.ExpectGet("levelup:missing").RedisNil()

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, internalerrors.IsNotFound(err))
}

func TestGetByCharacter(t *testing.T) {
	repo, mock := newMockedRepo(t)
	session := testSession()

	jsonData, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectGet("character:char-1:levelup").SetVal("sess-1")
	mock.ExpectGet("levelup:sess-1").SetVal(string(jsonData))

	got, err := repo.GetByCharacter(context.Background(), "char-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockedRepo(t)
	session := testSession()

	jsonData, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectGet("levelup:sess-1").SetVal(string(jsonData))
	mock.ExpectDel("levelup:sess-1").SetVal(1)
	mock.ExpectDel("character:char-1:levelup").SetVal(1)

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
}
