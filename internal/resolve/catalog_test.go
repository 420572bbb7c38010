package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func grapevineManifest(t *testing.T) *domain.SidebarManifest {
	t.Helper()
	m, err := domain.BuildManifest(domain.Declaration{
		{Name: "someSidebar", Groups: []domain.GroupDecl{
			{Label: "Grapevine", Items: []string{"overview", "routes"}},
			{Label: "Tutorials", Items: []string{"tutorials/send-response", "missing"}},
		}},
	})
	require.NoError(t, err)
	return m
}

func TestScan(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"overview.md":                "---\nid: overview\ntitle: Overview\n---\n# Overview\n",
		"routing.mdx":                "---\nid: routes\nsidebar_label: Routes\n---\nbody",
		"tutorials/send-response.md": "no front matter",
		"_partials/snippet.md":       "skipped",
		".hidden.md":                 "skipped",
		"img/logo.png":               "not markdown",
	})

	c, err := Scan(root)
	require.NoError(t, err)

	assert.Equal(t, root, c.Root())
	assert.Equal(t, []domain.DocRef{"overview", "routes", "tutorials/send-response"}, c.IDs())

	doc, ok := c.Lookup("routes")
	require.True(t, ok)
	assert.Equal(t, "routing.mdx", doc.Path)
	assert.Equal(t, "Routes", doc.SidebarLabel)

	doc, ok = c.Lookup("overview")
	require.True(t, ok)
	assert.Equal(t, "Overview", doc.Title)
}

func TestScanFrontMatterIDKeepsDirectory(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"guides/first.md": "---\nid: getting-started\n---\n",
	})
	c, err := Scan(root)
	require.NoError(t, err)
	_, ok := c.Lookup("guides/getting-started")
	assert.True(t, ok)
}

func TestScanErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Scan(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
	t.Run("not a directory", func(t *testing.T) {
		root := writeDocs(t, map[string]string{"a.md": "x"})
		_, err := Scan(filepath.Join(root, "a.md"))
		assert.Error(t, err)
	})
	t.Run("duplicate id", func(t *testing.T) {
		root := writeDocs(t, map[string]string{
			"a.md": "---\nid: same\n---\n",
			"b.md": "---\nid: same\n---\n",
		})
		_, err := Scan(root)
		assert.ErrorContains(t, err, `"same"`)
	})
	t.Run("unterminated front matter", func(t *testing.T) {
		root := writeDocs(t, map[string]string{"a.md": "---\nid: a\n"})
		_, err := Scan(root)
		assert.ErrorContains(t, err, "unterminated")
	})
	t.Run("invalid front matter", func(t *testing.T) {
		root := writeDocs(t, map[string]string{"a.md": "---\nid: [a\n---\n"})
		_, err := Scan(root)
		assert.Error(t, err)
	})
}

func TestCatalogCheck(t *testing.T) {
	c := NewCatalog("docs",
		Doc{ID: "overview"}, Doc{ID: "routes"}, Doc{ID: "tutorials/send-response"}, Doc{ID: "orphan"})

	unresolved := c.Check(grapevineManifest(t))
	require.Len(t, unresolved, 1)
	assert.Equal(t, domain.DocRef("missing"), unresolved[0].DocRef)
	assert.Equal(t, "Tutorials", unresolved[0].Group)
	assert.Equal(t, 1, unresolved[0].Position)

	unlisted := c.Unlisted(grapevineManifest(t))
	require.Len(t, unlisted, 1)
	assert.Equal(t, domain.DocRef("orphan"), unlisted[0].ID)
}

func TestEnforce(t *testing.T) {
	unresolved := []Unresolved{
		{DocRef: "a", Location: domain.Location{Sidebar: "s", Group: "G", Position: 0}},
		{DocRef: "b", Location: domain.Location{Sidebar: "s", Group: "G", Position: 1}},
	}

	tests := []struct {
		policy    domain.BrokenLinkPolicy
		wantErr   bool
		wantLevel zapcore.Level
		wantLogs  int
	}{
		{policy: domain.PolicyThrow, wantErr: true},
		{policy: domain.PolicyWarn, wantLevel: zapcore.WarnLevel, wantLogs: 2},
		{policy: domain.PolicyLog, wantLevel: zapcore.InfoLevel, wantLogs: 2},
		{policy: domain.PolicyIgnore},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			err := Enforce(unresolved, tt.policy, logger.FromZap(zap.New(core)))

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnresolvedDocRef))
				assert.Len(t, multierr.Errors(err), 2)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantLogs, logs.Len())
			for _, entry := range logs.All() {
				assert.Equal(t, tt.wantLevel, entry.Level)
			}
		})
	}
}

func TestEnforceNothingUnresolved(t *testing.T) {
	assert.NoError(t, Enforce(nil, domain.PolicyThrow, logger.NewNop()))
}
