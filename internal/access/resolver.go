package access

import (
	"fmt"

	"github.com/propbooks-dev/propbooks/internal/model"
)

// ErrorKind names one validation rule violation.
type ErrorKind string

const (
	KindMissingRole          ErrorKind = "missing_role"
	KindMissingEntityScope   ErrorKind = "missing_entity_scope"
	KindMissingPropertyScope ErrorKind = "missing_property_scope"
)

// ValidationError describes a single grant rule violation.
type ValidationError struct {
	Kind        ErrorKind
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Resolver answers access-control questions against an injected role catalog.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// EditableRoles returns the roles an actor may assign to others.
// SUPER_ADMIN may assign every catalog role; all other roles use their
// static table entry, which may be empty. Unknown actors get nothing.
func (r *Resolver) EditableRoles(actor model.Role) []model.Role {
	if actor == model.RoleSuperAdmin {
		return r.catalog.Roles()
	}
	spec, ok := r.catalog.Spec(actor)
	if !ok {
		return nil
	}
	return append([]model.Role(nil), spec.EditableRoles...)
}

// CanAssign reports whether an actor may move a target from current to
// proposed. Leaving a role unchanged is always permitted, even when the
// actor could not have granted it originally; this keeps a save from
// silently stripping an assignment the actor merely lacked authority over.
func (r *Resolver) CanAssign(actor, current, proposed model.Role) bool {
	if proposed == current {
		return true
	}
	for _, role := range r.EditableRoles(actor) {
		if role == proposed {
			return true
		}
	}
	return false
}

// CanEdit reports whether an actor may modify a grant held at the given
// role. Unlike CanAssign there is no unchanged-role escape hatch: editing
// someone's scope requires authority over the role they hold.
func (r *Resolver) CanEdit(actor, target model.Role) bool {
	for _, role := range r.EditableRoles(actor) {
		if role == target {
			return true
		}
	}
	return false
}

// VisibleProperties filters properties to those owned by a selected entity.
// An empty selection means no entity filter has been applied yet, so every
// property stays visible. Input order is preserved; the input is not mutated.
func (r *Resolver) VisibleProperties(all []model.Property, selectedEntityIDs []string) []model.Property {
	if len(selectedEntityIDs) == 0 {
		return append([]model.Property(nil), all...)
	}
	selected := make(map[string]bool, len(selectedEntityIDs))
	for _, id := range selectedEntityIDs {
		selected[id] = true
	}
	var out []model.Property
	for _, p := range all {
		if selected[p.EntityID] {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks a grant against the catalog's scope rules. Every rule is
// evaluated; nothing short-circuits, so a caller can surface all violations
// at once. An empty result means the grant may be saved.
func (r *Resolver) Validate(grant model.AccessGrant) []ValidationError {
	var errs []ValidationError

	if grant.Role == "" {
		errs = append(errs, ValidationError{
			Kind:        KindMissingRole,
			Description: "a role must be selected",
		})
	}

	spec, ok := r.catalog.Spec(grant.Role)
	if !ok {
		return errs
	}

	if spec.RequiresEntityScope && len(grant.EntityIDs) == 0 {
		errs = append(errs, ValidationError{
			Kind:        KindMissingEntityScope,
			Description: fmt.Sprintf("role %s requires at least one entity", grant.Role),
		})
	}
	if spec.RequiresPropertyScope && len(grant.PropertyIDs) == 0 {
		errs = append(errs, ValidationError{
			Kind:        KindMissingPropertyScope,
			Description: fmt.Sprintf("role %s requires at least one property", grant.Role),
		})
	}

	return errs
}

// DeselectEntity returns a new grant with the entity removed and every
// property owned by that entity dropped from the property scope. A property
// selection never outlives its owning entity's selection. The input grant
// is left untouched.
func (r *Resolver) DeselectEntity(grant model.AccessGrant, entityID string, allProperties []model.Property) model.AccessGrant {
	owned := make(map[string]bool)
	for _, p := range allProperties {
		if p.EntityID == entityID {
			owned[p.ID] = true
		}
	}

	out := grant.Clone()
	out.EntityIDs = out.EntityIDs[:0]
	for _, id := range grant.EntityIDs {
		if id != entityID {
			out.EntityIDs = append(out.EntityIDs, id)
		}
	}
	out.PropertyIDs = out.PropertyIDs[:0]
	for _, id := range grant.PropertyIDs {
		if !owned[id] {
			out.PropertyIDs = append(out.PropertyIDs, id)
		}
	}
	return out
}
