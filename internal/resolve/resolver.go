package resolve

import (
	"fmt"

	"toggl-cli/internal/cache"
)

const (
	NoProject      = "No project"
	unknownProject = "Unknown project"
	unknownTag     = "Unknown tag"
)

// Resolver turns remote ids into display names using the local cache. It
// never fails: unresolvable references degrade to a placeholder or are skipped.
type Resolver struct {
	store *cache.Store
}

func New(store *cache.Store) Resolver {
	return Resolver{store: store}
}

// ProjectName returns the cached name for id, "No project" for a nil or zero
// id, and "Project #<id>" when the cache does not know the project.
func (r Resolver) ProjectName(id *int64) string {
	if id == nil || *id == 0 {
		return NoProject
	}
	p, ok := r.store.Projects.Lookup(*id)
	if !ok {
		return fmt.Sprintf("Project #%d", *id)
	}
	if p.Name == "" {
		return unknownProject
	}
	return p.Name
}

// TagNames returns the names of cached tags whose id is in ids, in cache
// order. Ids missing from the cache are dropped without a placeholder.
func (r Resolver) TagNames(ids []int64) []string {
	if len(ids) == 0 {
		return []string{}
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	names := []string{}
	for _, t := range r.store.Tags.Get() {
		if _, ok := want[t.ID]; !ok {
			continue
		}
		if t.Name == "" {
			names = append(names, unknownTag)
			continue
		}
		names = append(names, t.Name)
	}
	return names
}
