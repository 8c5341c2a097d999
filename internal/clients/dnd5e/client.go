package dnd5e

import (
	"net/http"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
)

type client struct {
	client dnd5e.Interface
}

// Config holds construction options for the API client
type Config struct {
	HTTPClient *http.Client
}

// New creates a Client backed by the public 5e API
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, internalerrors.InvalidArgument("cfg is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	apiClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: httpClient,
	})
	if err != nil {
		return nil, err
	}

	return &client{client: apiClient}, nil
}

func (c *client) ListClasses() ([]*rulebook.Class, error) {
	response, err := c.client.ListClasses()
	if err != nil {
		return nil, err
	}

	return apiReferenceItemsToClasses(response), nil
}

func (c *client) GetClass(key string) (*rulebook.Class, error) {
	response, err := c.client.GetClass(key)
	if err != nil {
		return nil, err
	}

	return apiClassToClass(response), nil
}

func (c *client) ListRaces() ([]*rulebook.Race, error) {
	response, err := c.client.ListRaces()
	if err != nil {
		return nil, err
	}

	return apiReferenceItemsToRaces(response), nil
}

func (c *client) GetRace(key string) (*rulebook.Race, error) {
	response, err := c.client.GetRace(key)
	if err != nil {
		return nil, err
	}

	return apiRaceToRace(response), nil
}

func (c *client) GetProficiency(key string) (*rulebook.Proficiency, error) {
	response, err := c.client.GetProficiency(key)
	if err != nil {
		return nil, err
	}

	return apiProficiencyToProficiency(response), nil
}

func (c *client) GetEquipment(key string) (equipment.Equipment, error) {
	response, err := c.client.GetEquipment(key)
	if err != nil {
		return nil, err
	}

	return apiEquipmentInterfaceToEquipment(response), nil
}
