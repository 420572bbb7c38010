package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/index"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
	redisstore "github.com/MrSnakeDoc/navmanifest/internal/store/redis"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource returns the queued results in order, repeating the last one.
type fakeSource struct {
	mu      sync.Mutex
	results []fakeResult
	calls   int
}

type fakeResult struct {
	manifest *domain.SidebarManifest
	err      error
}

func (s *fakeSource) Name() string { return "fake.js" }

func (s *fakeSource) Load(context.Context) (*docusaurus.Loaded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[min(s.calls, len(s.results)-1)]
	s.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &docusaurus.Loaded{Manifest: r.manifest}, nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakePublisher struct {
	mu      sync.Mutex
	records []redisstore.Record
	err     error
}

func (p *fakePublisher) SaveManifest(_ context.Context, rec redisstore.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, rec)
	return nil
}

func mustManifest(t *testing.T, groups ...string) *domain.SidebarManifest {
	t.Helper()
	decl := domain.Declaration{{Name: "docs"}}
	for _, g := range groups {
		decl[0].Groups = append(decl[0].Groups, domain.GroupDecl{Label: g, Items: []string{"intro"}})
	}
	m, err := domain.BuildManifest(decl)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestManifestReloader_StartupFailure(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{err: errors.New("boom")}}}
	idx := index.NewManifestIndex()
	mr := NewManifestReloader(src, nil, idx, logger.NewNop(), 0, nil)

	if err := mr.Start(context.Background()); err == nil {
		t.Fatal("expected startup error")
	}
	mr.Stop()

	if idx.Ready() {
		t.Error("index should not be ready after a failed startup load")
	}
	if _, n := idx.LastFailure(); n != 1 {
		t.Errorf("expected 1 recorded failure, got %d", n)
	}
}

func TestManifestReloader_StartupFailureWithRestoredManifest(t *testing.T) {
	restored := mustManifest(t, "Guides")
	idx := index.NewManifestIndex()
	idx.Restore(index.Snapshot{Manifest: restored, Revision: "rev-redis", Source: SourceRedis, LoadedAt: time.Now()})

	src := &fakeSource{results: []fakeResult{{err: errors.New("boom")}}}
	mr := NewManifestReloader(src, nil, idx, logger.NewNop(), 0, nil)
	if err := mr.Start(context.Background()); err != nil {
		t.Fatalf("restored manifest must keep startup alive: %v", err)
	}
	defer mr.Stop()

	if idx.Revision() != "rev-redis" {
		t.Errorf("expected restored revision, got %q", idx.Revision())
	}
}

func TestManifestReloader_KeepsPreviousOnFailure(t *testing.T) {
	first := mustManifest(t, "Guides")
	src := &fakeSource{results: []fakeResult{
		{manifest: first},
		{err: domain.ErrDuplicateGroupLabel},
	}}
	pub := &fakePublisher{}
	idx := index.NewManifestIndex()
	mr := NewManifestReloader(src, pub, idx, logger.NewNop(), 0, nil)

	if err := mr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mr.Stop()

	rev := idx.Revision()
	if rev == "" {
		t.Fatal("expected a revision after startup")
	}

	err := mr.Reload(context.Background(), TriggerManual)
	if !errors.Is(err, domain.ErrDuplicateGroupLabel) {
		t.Fatalf("expected ErrDuplicateGroupLabel, got %v", err)
	}
	if idx.Revision() != rev {
		t.Error("failed reload must keep the previous revision")
	}
	if !idx.Current().Equal(first) {
		t.Error("failed reload must keep the previous manifest")
	}
	failure, total := idx.LastFailure()
	if total != 1 || failure.Consecutive != 1 {
		t.Errorf("unexpected failure counters: total=%d consecutive=%d", total, failure.Consecutive)
	}

	if len(pub.records) != 1 || pub.records[0].Revision != rev {
		t.Errorf("expected one published record for %s, got %+v", rev, pub.records)
	}
}

func TestManifestReloader_PublishErrorIsNotFatal(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{manifest: mustManifest(t, "Guides")}}}
	pub := &fakePublisher{err: errors.New("redis down")}
	idx := index.NewManifestIndex()
	mr := NewManifestReloader(src, pub, idx, logger.NewNop(), 0, nil)

	if err := mr.Reload(context.Background(), TriggerStartup); err != nil {
		t.Fatalf("publish failure must not fail the reload: %v", err)
	}
	if !idx.Ready() {
		t.Error("index should be ready")
	}
}

func TestManifestReloader_Triggers(t *testing.T) {
	src := &fakeSource{results: []fakeResult{
		{manifest: mustManifest(t, "Guides")},
		{manifest: mustManifest(t, "Guides", "Reference")},
	}}
	manual := make(chan struct{}, 1)
	files := make(chan struct{}, 1)
	idx := index.NewManifestIndex()
	mr := NewManifestReloader(src, nil, idx, logger.NewNop(), 0, manual).
		WithFileTrigger(files)

	if err := mr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mr.Stop()

	manual <- struct{}{}
	waitFor(t, func() bool { return src.Calls() == 2 })
	waitFor(t, func() bool { return idx.Stats().Groups == 2 })

	files <- struct{}{}
	waitFor(t, func() bool { return src.Calls() == 3 })
}

func TestManifestReloader_Interval(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{manifest: mustManifest(t, "Guides")}}}
	idx := index.NewManifestIndex()
	mr := NewManifestReloader(src, nil, idx, logger.NewNop(), 20*time.Millisecond, nil)

	if err := mr.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool { return src.Calls() >= 3 })
	mr.Stop()
	mr.Stop() // idempotent
}

func TestManifestReloader_ContextCancel(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{manifest: mustManifest(t, "Guides")}}}
	ctx, cancel := context.WithCancel(context.Background())
	mr := NewManifestReloader(src, nil, index.NewManifestIndex(), logger.NewNop(), time.Hour, nil)

	if err := mr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	mr.Stop()
}

func TestProjectSource(t *testing.T) {
	dir := t.TempDir()
	sidebars := filepath.Join(dir, "sidebars.json")
	site := filepath.Join(dir, "site.yaml")
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "overview.md"), []byte("# Overview\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sidebars, []byte(`{"someSidebar": {"Grapevine": ["overview", "routes"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	writeSite := func(policy string) {
		content := "title: Grapevine\nurl: https://grapevine.dev\nbaseUrl: /\nonBrokenLinks: " + policy + "\n"
		if err := os.WriteFile(site, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src := NewProjectSource(docusaurus.Project{SidebarsFile: sidebars, SiteFile: site, DocsDir: docs}, logger.NewNop())
	if src.Name() != sidebars {
		t.Errorf("Name() = %q", src.Name())
	}

	writeSite("warn")
	loaded, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("warn policy must not fail: %v", err)
	}
	if got := loaded.Manifest.Stats().DocRefs; got != 2 {
		t.Errorf("expected 2 doc refs, got %d", got)
	}

	writeSite("throw")
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("throw policy must fail on the unresolved doc-ref")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type fakeStore struct {
	rec      *redisstore.Record
	err      error
	keep     string
	pruneErr error
	pruned   int
}

func (s *fakeStore) GetManifest(context.Context) (*redisstore.Record, error) {
	return s.rec, s.err
}

func (s *fakeStore) PruneRenders(_ context.Context, keep string) (int, error) {
	s.keep = keep
	return s.pruned, s.pruneErr
}

func TestRedisSyncer_Sync(t *testing.T) {
	m := mustManifest(t, "Guides")
	loadedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("restores", func(t *testing.T) {
		idx := index.NewManifestIndex()
		store := &fakeStore{rec: &redisstore.Record{Revision: "rev-1", Source: "sidebars.js", LoadedAt: loadedAt, Manifest: m}}
		ok, err := NewRedisSyncer(store, idx, logger.NewNop()).Sync(context.Background())
		if err != nil || !ok {
			t.Fatalf("Sync = %v, %v", ok, err)
		}
		snap, ready := idx.Snapshot()
		if !ready {
			t.Fatal("index should be ready")
		}
		if snap.Revision != "rev-1" || snap.Source != SourceRedis || !snap.LoadedAt.Equal(loadedAt) {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})

	t.Run("nothing published", func(t *testing.T) {
		idx := index.NewManifestIndex()
		ok, err := NewRedisSyncer(&fakeStore{err: redisstore.ErrNotFound}, idx, logger.NewNop()).Sync(context.Background())
		if err != nil || ok {
			t.Fatalf("Sync = %v, %v", ok, err)
		}
		if idx.Ready() {
			t.Error("index should stay empty")
		}
	})

	t.Run("redis error", func(t *testing.T) {
		_, err := NewRedisSyncer(&fakeStore{err: errors.New("timeout")}, index.NewManifestIndex(), logger.NewNop()).Sync(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRenderCacheCollector_Collect(t *testing.T) {
	idx := index.NewManifestIndex()
	store := &fakeStore{pruned: 3}
	gc := NewRenderCacheCollector(store, idx, logger.NewNop(), 0)

	if gc.interval != DefaultRenderGCInterval {
		t.Errorf("expected default interval, got %s", gc.interval)
	}

	n, err := gc.Collect(context.Background())
	if err != nil || n != 0 || store.keep != "" {
		t.Fatalf("empty index must skip pruning: n=%d err=%v keep=%q", n, err, store.keep)
	}

	rev := idx.Update(mustManifest(t, "Guides"), nil, "sidebars.js")
	n, err = gc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if n != 3 || store.keep != rev {
		t.Errorf("expected 3 pruned keeping %s, got %d keeping %s", rev, n, store.keep)
	}

	store.pruneErr = errors.New("scan failed")
	if _, err := gc.Collect(context.Background()); err == nil {
		t.Error("expected prune error")
	}

	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	gc.Stop()
}

func TestRenderCacheCollector_StopTwice(t *testing.T) {
	gc := NewRenderCacheCollector(&fakeStore{}, index.NewManifestIndex(), logger.NewNop(), time.Minute)
	if err := gc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	gc.Stop()
	gc.Stop()

	idle := NewRenderCacheCollector(&fakeStore{}, index.NewManifestIndex(), logger.NewNop(), time.Minute)
	idle.Stop()
	idle.Stop()
}

func TestFileWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sidebars.js")
	if err := os.WriteFile(path, []byte("module.exports = {};"), 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := NewFileWatcher(logger.NewNop(), 50*time.Millisecond, path, "")
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := fw.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer fw.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fw.C():
		t.Fatal("unexpected signal for an unwatched file")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("module.exports = {a: {}};"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-fw.C():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a signal after writing the watched file")
	}
	select {
	case <-fw.C():
		t.Fatal("a burst of writes must collapse into one signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_NoFiles(t *testing.T) {
	if _, err := NewFileWatcher(logger.NewNop(), 0, ""); err == nil {
		t.Fatal("expected error without files")
	}
}
