package grants

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/propbooks-dev/propbooks/internal/access"
	"github.com/propbooks-dev/propbooks/internal/model"
)

const grantsFile = "access/grants.csv"

// ErrRoleNotAssignable reports that the acting role may not assign the
// proposed role to the target user.
var ErrRoleNotAssignable = errors.New("role not assignable by actor")

// ErrGrantNotFound reports that a user has no stored grant.
var ErrGrantNotFound = errors.New("grant not found")

// ErrGrantNotEditable reports that the acting role has no authority over
// the role the target user currently holds.
var ErrGrantNotEditable = errors.New("grant not editable by actor")

// Service persists access grants under a books repo root, gating every
// write behind the resolver's assignment and validation rules.
type Service struct {
	repoRoot string
	resolver *access.Resolver
}

// NewService creates a grants Service.
func NewService(repoRoot string, resolver *access.Resolver) *Service {
	return &Service{repoRoot: repoRoot, resolver: resolver}
}

// All returns every stored grant. A missing grants file means no grants yet.
func (s *Service) All() ([]model.AccessGrant, error) {
	f, err := os.Open(filepath.Join(s.repoRoot, grantsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening grants: %w", err)
	}
	defer f.Close()

	grants, err := ReadGrants(f)
	if err != nil {
		return nil, fmt.Errorf("reading grants: %w", err)
	}
	return grants, nil
}

// Get returns the stored grant for a user.
func (s *Service) Get(userID string) (model.AccessGrant, error) {
	all, err := s.All()
	if err != nil {
		return model.AccessGrant{}, err
	}
	for _, g := range all {
		if g.UserID == userID {
			return g, nil
		}
	}
	return model.AccessGrant{}, fmt.Errorf("user %s: %w", userID, ErrGrantNotFound)
}

// SetParams holds one proposed access change.
type SetParams struct {
	ActorRole   model.Role
	UserID      string
	Role        model.Role
	Status      model.GrantStatus
	EntityIDs   []string
	PropertyIDs []string
}

// Set applies a proposed access change as one atomic validate-then-save
// operation. A non-empty ValidationError slice means the proposal was
// rejected and nothing was written; the error return covers authorization
// and I/O failures. On success the saved grant is returned.
func (s *Service) Set(params SetParams) (model.AccessGrant, []access.ValidationError, error) {
	all, err := s.All()
	if err != nil {
		return model.AccessGrant{}, nil, err
	}

	var current model.AccessGrant
	idx := -1
	for i, g := range all {
		if g.UserID == params.UserID {
			current = g
			idx = i
			break
		}
	}

	if !s.resolver.CanAssign(params.ActorRole, current.Role, params.Role) {
		return model.AccessGrant{}, nil, fmt.Errorf("actor %s assigning %s: %w",
			params.ActorRole, params.Role, ErrRoleNotAssignable)
	}

	grant := model.AccessGrant{
		ID:          current.ID,
		UserID:      params.UserID,
		Role:        params.Role,
		Status:      params.Status,
		EntityIDs:   append([]string(nil), params.EntityIDs...),
		PropertyIDs: append([]string(nil), params.PropertyIDs...),
		UpdatedAt:   time.Now().UTC(),
	}
	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}
	if grant.Status == "" {
		grant.Status = model.GrantStatusActive
	}

	if errs := s.resolver.Validate(grant); len(errs) > 0 {
		return model.AccessGrant{}, errs, nil
	}

	if idx >= 0 {
		all[idx] = grant
	} else {
		all = append(all, grant)
	}

	if err := s.save(all); err != nil {
		return model.AccessGrant{}, nil, err
	}
	return grant, nil, nil
}

// DropEntity removes an entity from a user's scope and cascades the removal
// to every property that entity owns. Like Set it is validate-then-save: a
// cascade that would leave the grant short of its role's required scope is
// rejected with the violations, and nothing is written. The actor must hold
// authority over the target's current role.
func (s *Service) DropEntity(actorRole model.Role, userID, entityID string, allProperties []model.Property) (model.AccessGrant, []access.ValidationError, error) {
	all, err := s.All()
	if err != nil {
		return model.AccessGrant{}, nil, err
	}

	for i, g := range all {
		if g.UserID != userID {
			continue
		}
		if !s.resolver.CanEdit(actorRole, g.Role) {
			return model.AccessGrant{}, nil, fmt.Errorf("actor %s editing %s grant: %w",
				actorRole, g.Role, ErrGrantNotEditable)
		}
		updated := s.resolver.DeselectEntity(g, entityID, allProperties)
		updated.UpdatedAt = time.Now().UTC()
		if errs := s.resolver.Validate(updated); len(errs) > 0 {
			return model.AccessGrant{}, errs, nil
		}
		all[i] = updated
		if err := s.save(all); err != nil {
			return model.AccessGrant{}, nil, err
		}
		return updated, nil, nil
	}
	return model.AccessGrant{}, nil, fmt.Errorf("user %s: %w", userID, ErrGrantNotFound)
}

func (s *Service) save(all []model.AccessGrant) error {
	dir := filepath.Join(s.repoRoot, "access")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating access dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.repoRoot, grantsFile))
	if err != nil {
		return fmt.Errorf("creating grants file: %w", err)
	}
	defer f.Close()

	if err := WriteGrants(f, all); err != nil {
		return fmt.Errorf("writing grants: %w", err)
	}
	return nil
}
