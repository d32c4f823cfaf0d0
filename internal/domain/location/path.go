package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// ErrHierarchyCycle is returned when a location's parent chain loops back on
// itself. Callers log a warning and use an empty path instead of failing.
var ErrHierarchyCycle = shared.NewDomainError("HIERARCHY_CYCLE", "Location hierarchy contains a cycle")

// PathResolver builds hierarchy paths for locations by walking the parent
// chain. A path is the slash-joined list of labels from the root down, e.g.
// /WH1/Z1/B1 for a bin B1 in zone Z1 of warehouse WH1.
type PathResolver struct {
	repo LocationRepository
}

// NewPathResolver creates a new PathResolver
func NewPathResolver(repo LocationRepository) *PathResolver {
	return &PathResolver{repo: repo}
}

// ResolvePath returns the hierarchy path for the given location. The walk
// keeps a visited set; if the parent chain revisits a node the resolver
// aborts with ErrHierarchyCycle and an empty path instead of looping.
func (r *PathResolver) ResolvePath(ctx context.Context, loc *Location) (string, error) {
	if loc == nil {
		return "", shared.NewDomainError("INVALID_LOCATION", "Location cannot be nil")
	}

	segments := []string{loc.Label()}
	visited := map[uuid.UUID]struct{}{loc.ID: {}}

	current := loc
	for !current.IsRoot() {
		parent, err := r.repo.FindByIDForTenant(ctx, loc.TenantID, *current.ParentLocationID)
		if err != nil {
			return "", err
		}
		if _, seen := visited[parent.ID]; seen {
			return "", ErrHierarchyCycle
		}
		visited[parent.ID] = struct{}{}
		segments = append(segments, parent.Label())
		current = parent
	}

	return joinPath(segments), nil
}

// ResolvePathByID resolves the path for a location looked up by ID
func (r *PathResolver) ResolvePathByID(ctx context.Context, tenantID, locationID uuid.UUID) (string, error) {
	loc, err := r.repo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return "", err
	}
	return r.ResolvePath(ctx, loc)
}

// ValidateParent checks that attaching a location under the given parent
// keeps the hierarchy well formed: the parent exists, its level is above the
// child's, and the chain terminates at a WAREHOUSE root without cycles.
func (r *PathResolver) ValidateParent(ctx context.Context, tenantID uuid.UUID, childType LocationType, parentID uuid.UUID) error {
	parent, err := r.repo.FindByIDForTenant(ctx, tenantID, parentID)
	if err != nil {
		return err
	}
	if !levelAbove(parent.Type, childType) {
		return shared.NewDomainError("INVALID_PARENT", "A "+string(childType)+" cannot be placed under a "+string(parent.Type))
	}

	// Walk to the root to prove the chain terminates at a warehouse.
	visited := map[uuid.UUID]struct{}{parent.ID: {}}
	current := parent
	for !current.IsRoot() {
		next, err := r.repo.FindByIDForTenant(ctx, tenantID, *current.ParentLocationID)
		if err != nil {
			return err
		}
		if _, seen := visited[next.ID]; seen {
			return ErrHierarchyCycle
		}
		visited[next.ID] = struct{}{}
		current = next
	}
	if current.Type != LocationTypeWarehouse {
		return shared.NewDomainError("INVALID_HIERARCHY", "Location chain must terminate at a WAREHOUSE root")
	}

	return nil
}

// joinPath renders segments collected leaf-first as /root/.../leaf
func joinPath(segments []string) string {
	var b []byte
	for i := len(segments) - 1; i >= 0; i-- {
		b = append(b, '/')
		b = append(b, segments[i]...)
	}
	return string(b)
}

// levelOrder ranks location types from root to leaf
var levelOrder = map[LocationType]int{
	LocationTypeWarehouse: 0,
	LocationTypeZone:      1,
	LocationTypeAisle:     2,
	LocationTypeRack:      3,
	LocationTypeBin:       4,
}

// levelAbove returns true if parent sits strictly above child in the tree.
// Intermediate levels may be skipped (a BIN directly under a ZONE is legal).
func levelAbove(parent, child LocationType) bool {
	return levelOrder[parent] < levelOrder[child]
}
