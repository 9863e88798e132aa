package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propbooks-dev/propbooks/internal/access"
	"github.com/propbooks-dev/propbooks/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Northgate Property Group")
	cfg.Access.RoleOverrides = []RoleOverride{
		{Role: "org_admin", EditableRoles: []string{"tenant", "maintenance"}},
	}

	path := filepath.Join(t.TempDir(), "propbooks.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Org.Name, got.Org.Name)
	assert.Equal(t, cfg.Org.Timezone, got.Org.Timezone)
	assert.Equal(t, cfg.Access.ActorRole, got.Access.ActorRole)
	assert.Equal(t, cfg.Git.AutoCommit, got.Git.AutoCommit)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
	assert.Equal(t, cfg.Git.AuthorEmail, got.Git.AuthorEmail)
	require.Len(t, got.Access.RoleOverrides, 1)
	assert.Equal(t, "org_admin", got.Access.RoleOverrides[0].Role)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Properties")

	assert.Equal(t, "My Properties", cfg.Org.Name)
	assert.Equal(t, "UTC", cfg.Org.Timezone)
	assert.Equal(t, "org_admin", cfg.Access.ActorRole)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Propbooks", cfg.Git.AuthorName)
	assert.Empty(t, cfg.Access.RoleOverrides)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestActorRole(t *testing.T) {
	cfg := Default("Test Org")
	role, err := cfg.ActorRole()
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrgAdmin, role)

	cfg.Access.ActorRole = "janitor"
	_, err = cfg.ActorRole()
	require.Error(t, err)
}

func TestCatalog_Default(t *testing.T) {
	cfg := Default("Test Org")
	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.ElementsMatch(t, model.Roles(), catalog.Roles())
}

func TestCatalog_Overrides(t *testing.T) {
	cfg := Default("Test Org")
	cfg.Access.RoleOverrides = []RoleOverride{
		{Role: "org_admin", EditableRoles: []string{"tenant"}},
	}

	catalog, err := cfg.Catalog()
	require.NoError(t, err)

	r := access.NewResolver(catalog)
	assert.Equal(t, []model.Role{model.RoleTenant}, r.EditableRoles(model.RoleOrgAdmin))
	assert.ElementsMatch(t, model.Roles(), r.EditableRoles(model.RoleSuperAdmin),
		"overrides never reach the super admin shortcut")
}

func TestCatalog_RejectsUnknownRole(t *testing.T) {
	cfg := Default("Test Org")
	cfg.Access.RoleOverrides = []RoleOverride{{Role: "janitor"}}
	_, err := cfg.Catalog()
	require.Error(t, err)

	cfg.Access.RoleOverrides = []RoleOverride{{Role: "org_admin", EditableRoles: []string{"janitor"}}}
	_, err = cfg.Catalog()
	require.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Northgate Property Group")
	path := filepath.Join(t.TempDir(), "propbooks.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Northgate Property Group")
	assert.Contains(t, contents, "actor_role: org_admin")
	assert.Contains(t, contents, "auto_commit: true")
}
