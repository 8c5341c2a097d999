package characters_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/shared"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/repositories/characters"
)

func setupRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func integrationCharacter(id string) *character.Character {
	return &character.Character{
		ID:      id,
		OwnerID: "user-123",
		RealmID: "realm-456",
		Name:    "Aragorn",
		RaceKey: "human",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    14,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 11,
			shared.AttributeWisdom:       13,
			shared.AttributeCharisma:     12,
		},
		Classes: []*character.ClassEntry{
			{ClassKey: "ranger", Level: 5, SubclassKey: "hunter"},
		},
		HitPointRolls: []int{10, 6, 6, 6, 6},
		HP:            shared.HPResource{Current: 44, Max: 44},
		Status:        shared.CharacterStatusActive,
	}
}

func TestRedisRepository_Integration(t *testing.T) {
	client := setupRedis(t)
	repo := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
	ctx := context.Background()

	t.Run("create and retrieve round trip", func(t *testing.T) {
		char := integrationCharacter("int-char-1")
		char.Inventory = []equipment.Equipment{
			&equipment.Weapon{
				Base:        equipment.BasicEquipment{Key: "longsword", Name: "Longsword"},
				WeaponRange: "Melee",
				Damage:      &equipment.Damage{DiceCount: 1, DiceSize: 8, Type: "slashing"},
			},
			&equipment.Armor{
				Base:          equipment.BasicEquipment{Key: "chain-shirt", Name: "Chain Shirt"},
				ArmorCategory: equipment.ArmorCategoryMedium,
				ArmorClass:    &equipment.ArmorClass{Base: 13, DexBonus: true, MaxBonus: 2},
			},
		}
		require.NoError(t, char.Equip("longsword"))

		require.NoError(t, repo.Create(ctx, char))

		got, err := repo.Get(ctx, char.ID)
		require.NoError(t, err)
		assert.Equal(t, char.Name, got.Name)
		assert.Equal(t, char.Attributes, got.Attributes)
		assert.Len(t, got.Inventory, 2)

		weapon, ok := got.EquippedSlots[shared.SlotMainHand].(*equipment.Weapon)
		require.True(t, ok, "equipped weapon keeps its concrete type")
		assert.Equal(t, "longsword", weapon.GetKey())
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		char := integrationCharacter("int-char-2")
		require.NoError(t, repo.Create(ctx, char))

		err := repo.Create(ctx, integrationCharacter("int-char-2"))
		require.Error(t, err)
		assert.True(t, internalerrors.IsAlreadyExists(err))
	})

	t.Run("update and list by owner", func(t *testing.T) {
		char := integrationCharacter("int-char-3")
		require.NoError(t, repo.Create(ctx, char))

		char.Experience = 6500
		require.NoError(t, repo.Update(ctx, char))

		got, err := repo.Get(ctx, char.ID)
		require.NoError(t, err)
		assert.Equal(t, 6500, got.Experience)

		owned, err := repo.GetByOwner(ctx, "user-123")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(owned), 3)
	})

	t.Run("delete removes character and index", func(t *testing.T) {
		char := integrationCharacter("int-char-4")
		require.NoError(t, repo.Create(ctx, char))
		require.NoError(t, repo.Delete(ctx, char.ID))

		_, err := repo.Get(ctx, char.ID)
		require.Error(t, err)
		assert.True(t, internalerrors.IsNotFound(err))
	})
}
