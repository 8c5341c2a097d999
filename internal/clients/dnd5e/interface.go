package dnd5e

//go:generate mockgen -destination=mock/mock.go -package=mockdnd5e -source=interface.go

import (
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
)

// Client fetches reference content from the 5e API and converts it into the
// rulebook's types. Progression data the API does not model (ASI levels,
// subclass unlocks, casting types) comes from the builtin library; the API
// supplies names, hit dice, races, and gear.
type Client interface {
	ListClasses() ([]*rulebook.Class, error)
	GetClass(key string) (*rulebook.Class, error)
	ListRaces() ([]*rulebook.Race, error)
	GetRace(key string) (*rulebook.Race, error)
	GetProficiency(key string) (*rulebook.Proficiency, error)
	GetEquipment(key string) (equipment.Equipment, error)
}
