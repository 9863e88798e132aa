// Package portfolio holds the entity and property catalog for a books repo.
package portfolio

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/propbooks-dev/propbooks/internal/model"
)

const fileName = "portfolio.yaml"

type file struct {
	Entities   []entityRow   `yaml:"entities"`
	Properties []propertyRow `yaml:"properties"`
}

type entityRow struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type propertyRow struct {
	ID       string `yaml:"id"`
	EntityID string `yaml:"entity_id"`
	Name     string `yaml:"name"`
	Address  string `yaml:"address,omitempty"`
}

// Service provides in-memory lookup over entities and properties.
type Service struct {
	entities   []model.Entity
	properties []model.Property
	entityByID map[string]model.Entity
	propByID   map[string]model.Property
}

// NewService creates a Service from entity and property slices.
func NewService(entities []model.Entity, properties []model.Property) *Service {
	s := &Service{
		entities:   entities,
		properties: properties,
		entityByID: make(map[string]model.Entity, len(entities)),
		propByID:   make(map[string]model.Property, len(properties)),
	}
	for _, e := range entities {
		s.entityByID[e.ID] = e
	}
	for _, p := range properties {
		s.propByID[p.ID] = p
	}
	return s
}

// Load reads portfolio.yaml from a books repo root.
// A missing file yields an empty Service; the catalog is optional.
func Load(repoRoot string) (*Service, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return NewService(nil, nil), nil
		}
		return nil, fmt.Errorf("reading portfolio: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}

	entities := make([]model.Entity, 0, len(f.Entities))
	for _, e := range f.Entities {
		entities = append(entities, model.Entity{ID: e.ID, Name: e.Name})
	}
	properties := make([]model.Property, 0, len(f.Properties))
	for _, p := range f.Properties {
		properties = append(properties, model.Property{ID: p.ID, EntityID: p.EntityID, Name: p.Name, Address: p.Address})
	}
	return NewService(entities, properties), nil
}

// Save writes the catalog to portfolio.yaml under the repo root.
func Save(repoRoot string, entities []model.Entity, properties []model.Property) error {
	f := file{
		Entities:   make([]entityRow, 0, len(entities)),
		Properties: make([]propertyRow, 0, len(properties)),
	}
	for _, e := range entities {
		f.Entities = append(f.Entities, entityRow{ID: e.ID, Name: e.Name})
	}
	for _, p := range properties {
		f.Properties = append(f.Properties, propertyRow{ID: p.ID, EntityID: p.EntityID, Name: p.Name, Address: p.Address})
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling portfolio: %w", err)
	}
	if err := os.WriteFile(filepath.Join(repoRoot, fileName), data, 0o644); err != nil {
		return fmt.Errorf("writing portfolio: %w", err)
	}
	return nil
}

// Entities returns all entities in catalog order.
func (s *Service) Entities() []model.Entity {
	return s.entities
}

// Properties returns all properties in catalog order.
func (s *Service) Properties() []model.Property {
	return s.properties
}

// Entity returns an entity by ID.
func (s *Service) Entity(id string) (model.Entity, bool) {
	e, ok := s.entityByID[id]
	return e, ok
}

// Property returns a property by ID.
func (s *Service) Property(id string) (model.Property, bool) {
	p, ok := s.propByID[id]
	return p, ok
}

// PropertiesOf returns all properties owned by an entity, in catalog order.
func (s *Service) PropertiesOf(entityID string) []model.Property {
	var out []model.Property
	for _, p := range s.properties {
		if p.EntityID == entityID {
			out = append(out, p)
		}
	}
	return out
}
