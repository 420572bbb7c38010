package index

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// Snapshot is one loaded manifest with its provenance.
type Snapshot struct {
	Manifest *domain.SidebarManifest
	Site     *domain.SiteConfig // nil when no site config is configured
	Revision string
	Source   string // file (or "redis") the manifest was read from
	LoadedAt time.Time
}

// ReloadFailure describes the latest failed reload.
type ReloadFailure struct {
	Err         error
	At          time.Time
	Consecutive int
}

// ManifestIndex holds the current manifest for serve mode.
// Manifests are immutable, so a reload swaps the whole snapshot and readers
// never see a half-updated one.
type ManifestIndex struct {
	mu       sync.RWMutex
	current  *Snapshot
	byRef    map[domain.DocRef][]domain.Location
	failure  ReloadFailure
	failures int // total since start
}

// NewManifestIndex creates an empty index. It is not ready until Update or
// Restore succeeds.
func NewManifestIndex() *ManifestIndex {
	return &ManifestIndex{byRef: make(map[domain.DocRef][]domain.Location)}
}

// Update stores a freshly loaded manifest under a new revision and returns it.
func (idx *ManifestIndex) Update(m *domain.SidebarManifest, site *domain.SiteConfig, source string) string {
	snap := Snapshot{
		Manifest: m,
		Site:     site,
		Revision: uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
	}
	idx.Restore(snap)
	return snap.Revision
}

// Restore stores a snapshot as-is, keeping its revision (warm start).
func (idx *ManifestIndex) Restore(snap Snapshot) {
	byRef := make(map[domain.DocRef][]domain.Location)
	for _, sb := range snap.Manifest.Sidebars() {
		for _, g := range sb.Groups {
			for pos, ref := range g.Items {
				byRef[ref] = append(byRef[ref], domain.Location{Sidebar: sb.Name, Group: g.Label, Position: pos})
			}
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.current = &snap
	idx.byRef = byRef
	idx.failure.Consecutive = 0
}

// RecordFailure notes a failed reload. The current snapshot is kept.
func (idx *ManifestIndex) RecordFailure(err error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.failure = ReloadFailure{Err: err, At: time.Now(), Consecutive: idx.failure.Consecutive + 1}
	idx.failures++
}

// LastFailure returns the latest failure and the total failure count.
// Consecutive is reset by the next successful reload.
func (idx *ManifestIndex) LastFailure() (ReloadFailure, int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.failure, idx.failures
}

// Ready reports whether a manifest has been loaded.
func (idx *ManifestIndex) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.current != nil
}

// Snapshot returns the current snapshot.
func (idx *ManifestIndex) Snapshot() (Snapshot, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.current == nil {
		return Snapshot{}, false
	}
	return *idx.current, true
}

// Current returns the current manifest, nil before the first load.
func (idx *ManifestIndex) Current() *domain.SidebarManifest {
	snap, _ := idx.Snapshot()
	return snap.Manifest
}

// Revision returns the current revision id, empty before the first load.
func (idx *ManifestIndex) Revision() string {
	snap, _ := idx.Snapshot()
	return snap.Revision
}

// LastReload returns when the current manifest was loaded.
func (idx *ManifestIndex) LastReload() time.Time {
	snap, _ := idx.Snapshot()
	return snap.LoadedAt
}

// Sidebar returns a copy of the named sidebar.
func (idx *ManifestIndex) Sidebar(name string) (domain.Sidebar, bool) {
	return idx.Current().Sidebar(name)
}

// Locate returns every place a doc-ref is listed.
func (idx *ManifestIndex) Locate(ref domain.DocRef) []domain.Location {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	locs := idx.byRef[ref]
	return append([]domain.Location(nil), locs...)
}

// Stats counts the current manifest.
func (idx *ManifestIndex) Stats() domain.Stats {
	return idx.Current().Stats()
}
