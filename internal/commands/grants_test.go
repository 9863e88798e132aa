package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propbooks-dev/propbooks/internal/access"
	"github.com/propbooks-dev/propbooks/internal/auditlog"
	"github.com/propbooks-dev/propbooks/internal/grants"
	"github.com/propbooks-dev/propbooks/internal/model"
	"github.com/propbooks-dev/propbooks/internal/portfolio"
)

func grantsService(t *testing.T, dir string) *grants.Service {
	t.Helper()
	return grants.NewService(dir, access.NewResolver(access.DefaultCatalog()))
}

func TestGrantsSet_CreatesGrant(t *testing.T) {
	dir := initRepo(t, "Test Org")

	out, err := runPropbooks(t, "grants", "set", "user-1", "--repo", dir,
		"--role", "accountant")
	require.NoError(t, err, "output: %s", out)

	g, err := grantsService(t, dir).Get("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAccountant, g.Role)
	assert.Equal(t, model.GrantStatusActive, g.Status)
	assert.NotEmpty(t, g.ID)
}

func TestGrantsSet_ScopedRole(t *testing.T) {
	dir := initRepo(t, "Test Org")

	out, err := runPropbooks(t, "grants", "set", "user-2", "--repo", dir,
		"--role", "property_manager",
		"--entity", "ent-1",
		"--property", "prop-1", "--property", "prop-2")
	require.NoError(t, err, "output: %s", out)

	g, err := grantsService(t, dir).Get("user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"ent-1"}, g.EntityIDs)
	assert.Equal(t, []string{"prop-1", "prop-2"}, g.PropertyIDs)
}

func TestGrantsSet_ValidationFailureReportsEveryError(t *testing.T) {
	dir := initRepo(t, "Test Org")

	out, err := runPropbooks(t, "grants", "set", "user-3", "--repo", dir,
		"--role", "property_manager")
	require.Error(t, err)
	assert.Contains(t, out, "entity")
	assert.Contains(t, out, "property")

	_, err = grantsService(t, dir).Get("user-3")
	assert.ErrorIs(t, err, grants.ErrGrantNotFound, "nothing should be written")
}

func TestGrantsSet_ActorWithoutAuthority(t *testing.T) {
	dir := initRepo(t, "Test Org")

	out, err := runPropbooks(t, "grants", "set", "user-4", "--repo", dir,
		"--role", "org_admin", "--as", "tenant")
	require.Error(t, err)
	assert.Contains(t, out, "not assignable")
}

func TestGrantsSet_WritesAuditLog(t *testing.T) {
	dir := initRepo(t, "Test Org")

	_, err := runPropbooks(t, "grants", "set", "user-5", "--repo", dir,
		"--role", "maintenance")
	require.NoError(t, err)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, "user-5", last.UserID)
	assert.NotEmpty(t, last.CommitHash, "auto-commit should record a hash")
}

func TestGrantsList(t *testing.T) {
	dir := initRepo(t, "Test Org")

	_, err := runPropbooks(t, "grants", "set", "user-6", "--repo", dir,
		"--role", "accountant")
	require.NoError(t, err)

	out, err := runPropbooks(t, "grants", "list", "--repo", dir)
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "user-6")
	assert.Contains(t, out, "accountant")
}

func TestGrantsDropEntity_Cascades(t *testing.T) {
	dir := initRepo(t, "Test Org")

	err := portfolio.Save(dir,
		[]model.Entity{{ID: "ent-1", Name: "Northgate LLC"}, {ID: "ent-2", Name: "Southside LLC"}},
		[]model.Property{
			{ID: "prop-1", EntityID: "ent-1", Name: "Northgate Tower"},
			{ID: "prop-2", EntityID: "ent-2", Name: "Southside Flats"},
		})
	require.NoError(t, err)

	_, err = runPropbooks(t, "grants", "set", "user-7", "--repo", dir,
		"--role", "property_manager",
		"--entity", "ent-1", "--entity", "ent-2",
		"--property", "prop-1", "--property", "prop-2")
	require.NoError(t, err)

	out, err := runPropbooks(t, "grants", "drop-entity", "user-7", "ent-1", "--repo", dir)
	require.NoError(t, err, "output: %s", out)

	g, err := grantsService(t, dir).Get("user-7")
	require.NoError(t, err)
	assert.Equal(t, []string{"ent-2"}, g.EntityIDs)
	assert.Equal(t, []string{"prop-2"}, g.PropertyIDs, "properties of the dropped entity go too")
}

func TestGrantsDropEntity_LastEntityRejected(t *testing.T) {
	dir := initRepo(t, "Test Org")

	err := portfolio.Save(dir,
		[]model.Entity{{ID: "ent-1", Name: "Northgate LLC"}},
		[]model.Property{{ID: "prop-1", EntityID: "ent-1", Name: "Northgate Tower"}})
	require.NoError(t, err)

	_, err = runPropbooks(t, "grants", "set", "user-8", "--repo", dir,
		"--role", "property_manager",
		"--entity", "ent-1", "--property", "prop-1")
	require.NoError(t, err)

	out, err := runPropbooks(t, "grants", "drop-entity", "user-8", "ent-1", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, out, "entity")
	assert.Contains(t, out, "property")

	g, err := grantsService(t, dir).Get("user-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"ent-1"}, g.EntityIDs, "stored grant keeps its scope")
	assert.Equal(t, []string{"prop-1"}, g.PropertyIDs)
}

func TestGrantsDropEntity_ActorWithoutAuthority(t *testing.T) {
	dir := initRepo(t, "Test Org")

	err := portfolio.Save(dir,
		[]model.Entity{{ID: "ent-1", Name: "Northgate LLC"}, {ID: "ent-2", Name: "Southside LLC"}},
		nil)
	require.NoError(t, err)

	_, err = runPropbooks(t, "grants", "set", "user-9", "--repo", dir,
		"--role", "entity_manager",
		"--entity", "ent-1", "--entity", "ent-2")
	require.NoError(t, err)

	out, err := runPropbooks(t, "grants", "drop-entity", "user-9", "ent-1", "--repo", dir,
		"--as", "tenant")
	require.Error(t, err)
	assert.Contains(t, out, "not editable")

	g, err := grantsService(t, dir).Get("user-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"ent-1", "ent-2"}, g.EntityIDs, "scope untouched")
}
