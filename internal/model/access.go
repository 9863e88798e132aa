package model

import (
	"fmt"
	"time"
)

// Role identifies a position in the fixed role catalog.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleOrgAdmin        Role = "org_admin"
	RoleEntityManager   Role = "entity_manager"
	RolePropertyManager Role = "property_manager"
	RoleAccountant      Role = "accountant"
	RoleMaintenance     Role = "maintenance"
	RoleTenant          Role = "tenant"
)

// Roles returns the full role catalog, broadest authority first.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleOrgAdmin,
		RoleEntityManager,
		RolePropertyManager,
		RoleAccountant,
		RoleMaintenance,
		RoleTenant,
	}
}

// ParseRole converts a string to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleOrgAdmin, RoleEntityManager, RolePropertyManager,
		RoleAccountant, RoleMaintenance, RoleTenant:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// GrantStatus represents the lifecycle state of an access grant.
type GrantStatus string

const (
	GrantStatusActive   GrantStatus = "active"
	GrantStatusInactive GrantStatus = "inactive"
	GrantStatusPending  GrantStatus = "pending"
)

// ParseGrantStatus converts a string to a GrantStatus, rejecting unknown values.
func ParseGrantStatus(s string) (GrantStatus, error) {
	switch gs := GrantStatus(s); gs {
	case GrantStatusActive, GrantStatusInactive, GrantStatusPending:
		return gs, nil
	}
	return "", fmt.Errorf("unknown grant status %q", s)
}

// AccessGrant is one user's role assignment plus its entity/property scope.
// Scope slices preserve selection order; membership is what matters.
type AccessGrant struct {
	ID          string // opaque, assigned on first save
	UserID      string
	Role        Role
	Status      GrantStatus
	EntityIDs   []string
	PropertyIDs []string
	UpdatedAt   time.Time
}

// HasEntity reports whether entityID is part of the grant's entity scope.
func (g AccessGrant) HasEntity(entityID string) bool {
	for _, id := range g.EntityIDs {
		if id == entityID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the grant so edits never alias the original.
func (g AccessGrant) Clone() AccessGrant {
	out := g
	out.EntityIDs = append([]string(nil), g.EntityIDs...)
	out.PropertyIDs = append([]string(nil), g.PropertyIDs...)
	return out
}

// Entity is an owning organization unit (an LLC, a holding company).
type Entity struct {
	ID   string
	Name string
}

// Property is a physical property owned by exactly one entity.
type Property struct {
	ID       string
	EntityID string
	Name     string
	Address  string
}
