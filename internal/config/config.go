package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/propbooks-dev/propbooks/internal/access"
	"github.com/propbooks-dev/propbooks/internal/model"
)

// Config represents the top-level propbooks.yaml configuration.
type Config struct {
	Org    OrgConfig    `yaml:"org"`
	Access AccessConfig `yaml:"access"`
	Git    GitConfig    `yaml:"git"`
}

// OrgConfig identifies the property management organization.
type OrgConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// AccessConfig controls how CLI sessions interact with access grants.
// ActorRole stands in for the external auth provider: it is the role the
// operator of this books repo acts as when changing grants.
type AccessConfig struct {
	ActorRole     string         `yaml:"actor_role"`
	RoleOverrides []RoleOverride `yaml:"role_overrides,omitempty"`
}

// RoleOverride replaces one role's editable-roles entry, letting a
// deployment restrict who may grant what without code changes.
type RoleOverride struct {
	Role          string   `yaml:"role"`
	EditableRoles []string `yaml:"editable_roles"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a propbooks.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new books repo.
func Default(orgName string) *Config {
	return &Config{
		Org: OrgConfig{
			Name:     orgName,
			Timezone: "UTC",
		},
		Access: AccessConfig{
			ActorRole: string(model.RoleOrgAdmin),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Propbooks",
			AuthorEmail: "books@propbooks.dev",
		},
	}
}

// ActorRole parses the configured acting role.
func (c *Config) ActorRole() (model.Role, error) {
	role, err := model.ParseRole(c.Access.ActorRole)
	if err != nil {
		return "", fmt.Errorf("access.actor_role: %w", err)
	}
	return role, nil
}

// Catalog builds the role catalog for this deployment: the default table
// with any configured overrides applied on top.
func (c *Config) Catalog() (access.Catalog, error) {
	catalog := access.DefaultCatalog()
	for _, o := range c.Access.RoleOverrides {
		role, err := model.ParseRole(o.Role)
		if err != nil {
			return access.Catalog{}, fmt.Errorf("access.role_overrides: %w", err)
		}
		editable := make([]model.Role, 0, len(o.EditableRoles))
		for _, s := range o.EditableRoles {
			r, err := model.ParseRole(s)
			if err != nil {
				return access.Catalog{}, fmt.Errorf("access.role_overrides for %s: %w", o.Role, err)
			}
			editable = append(editable, r)
		}
		catalog = catalog.WithEditableRoles(role, editable)
	}
	return catalog, nil
}
