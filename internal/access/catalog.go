// Package access decides which roles an actor may assign, validates proposed
// access grants, and maintains the entity/property scope cascade. Everything
// here is a pure function over immutable snapshots; no I/O, no package state.
package access

import (
	"github.com/propbooks-dev/propbooks/internal/model"
)

// RoleSpec describes one role's authority over access grants.
type RoleSpec struct {
	Role model.Role

	// EditableRoles lists the roles a holder may assign to others. Empty
	// means the role cannot grant anything. SUPER_ADMIN ignores its entry
	// and may always assign every catalog role.
	EditableRoles []model.Role

	// RequiresEntityScope marks roles that must be restricted to at least
	// one entity; RequiresPropertyScope additionally demands properties.
	RequiresEntityScope   bool
	RequiresPropertyScope bool
}

// Catalog is an immutable role table injected into a Resolver. Build one
// with NewCatalog or start from DefaultCatalog; lookups never mutate it.
type Catalog struct {
	specs map[model.Role]RoleSpec
	order []model.Role
}

// NewCatalog builds a Catalog from specs, keeping their order. Later
// duplicates of a role replace earlier ones.
func NewCatalog(specs []RoleSpec) Catalog {
	c := Catalog{specs: make(map[model.Role]RoleSpec, len(specs))}
	for _, s := range specs {
		if _, seen := c.specs[s.Role]; !seen {
			c.order = append(c.order, s.Role)
		}
		c.specs[s.Role] = s
	}
	return c
}

// Roles returns every role in the catalog in declaration order.
func (c Catalog) Roles() []model.Role {
	return append([]model.Role(nil), c.order...)
}

// Spec returns the RoleSpec for a role, if present.
func (c Catalog) Spec(r model.Role) (RoleSpec, bool) {
	s, ok := c.specs[r]
	return s, ok
}

// WithEditableRoles returns a copy of the catalog with one role's
// editable-roles entry replaced. Used to apply per-deployment restrictions
// from config without touching the shared default table.
func (c Catalog) WithEditableRoles(role model.Role, editable []model.Role) Catalog {
	specs := make([]RoleSpec, 0, len(c.order))
	for _, r := range c.order {
		s := c.specs[r]
		if r == role {
			s.EditableRoles = append([]model.Role(nil), editable...)
		}
		specs = append(specs, s)
	}
	return NewCatalog(specs)
}

// DefaultCatalog returns the standard seven-role table.
func DefaultCatalog() Catalog {
	return NewCatalog([]RoleSpec{
		{
			// Implicitly edits everything; the entry exists so the role
			// is part of the catalog, not for its EditableRoles value.
			Role: model.RoleSuperAdmin,
		},
		{
			Role: model.RoleOrgAdmin,
			EditableRoles: []model.Role{
				model.RoleEntityManager,
				model.RolePropertyManager,
				model.RoleAccountant,
				model.RoleMaintenance,
				model.RoleTenant,
			},
		},
		{
			Role: model.RoleEntityManager,
			EditableRoles: []model.Role{
				model.RolePropertyManager,
				model.RoleMaintenance,
				model.RoleTenant,
			},
			RequiresEntityScope: true,
		},
		{
			Role: model.RolePropertyManager,
			EditableRoles: []model.Role{
				model.RoleMaintenance,
				model.RoleTenant,
			},
			RequiresEntityScope:   true,
			RequiresPropertyScope: true,
		},
		{Role: model.RoleAccountant},
		{Role: model.RoleMaintenance},
		{Role: model.RoleTenant},
	})
}
