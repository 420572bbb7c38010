package docusaurus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestLoaderLoadOriginalSidebarsJS(t *testing.T) {
	m, err := NewLoader("testdata/sidebars.js").LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	sb, ok := m.Sidebar("someSidebar")
	if !ok {
		t.Fatal("someSidebar not found")
	}

	wantLabels := []string{"Style Guide", "Grapevine", "Tutorials"}
	if len(sb.Groups) != len(wantLabels) {
		t.Fatalf("got %d groups, want %d", len(sb.Groups), len(wantLabels))
	}
	for i, want := range wantLabels {
		if sb.Groups[i].Label != want {
			t.Errorf("group[%d] = %q, want %q", i, sb.Groups[i].Label, want)
		}
	}

	if n := len(sb.Groups[1].Items); n != 14 {
		t.Errorf("Grapevine has %d docs, want 14", n)
	}
	if first := sb.Groups[1].Items[0]; first != "overview" {
		t.Errorf("Grapevine first doc = %q, want overview", first)
	}
	if last := sb.Groups[2].Items[len(sb.Groups[2].Items)-1]; last != "windows-firewall" {
		t.Errorf("Tutorials last doc = %q, want windows-firewall", last)
	}
}

func TestLoaderLoadCategoryListYAML(t *testing.T) {
	decl, err := NewLoader("testdata/sidebars.yaml").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(decl) != 1 || len(decl[0].Groups) != 3 {
		t.Fatalf("Load() = %+v, want one sidebar with 3 groups", decl)
	}
	if got := decl[0].Groups[1]; got.Label != "Grapevine" || len(got.Items) != 3 || got.Items[2] != "route-scanner" {
		t.Errorf("group[1] = %+v", got)
	}
}

func TestLoaderLoadJSON(t *testing.T) {
	path := writeFile(t, "sidebars.json", `{
  "someSidebar": {
    "Grapevine": ["overview", "routes"],
    "Tutorials": ["send-response"]
  }
}`)

	m, err := NewLoader(path).LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	want := []domain.DocRef{"overview", "routes", "send-response"}
	got := m.DocRefs()
	if len(got) != len(want) {
		t.Fatalf("DocRefs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DocRefs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoaderLoadESModuleWithComments(t *testing.T) {
	path := writeFile(t, "sidebars.mjs", `// navigation for the docs site
/* generated,
   do not edit */
export default {
  docs: {
    'Getting Started': ['intro', /* keep first */ 'install',],
    // reference material
    Reference: ['api', 'cli'],
  },
};
`)

	decl, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(decl) != 1 || decl[0].Name != "docs" {
		t.Fatalf("Load() = %+v, want sidebar docs", decl)
	}
	groups := decl[0].Groups
	if len(groups) != 2 || groups[0].Label != "Getting Started" || groups[1].Label != "Reference" {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Items) != 2 || groups[0].Items[1] != "install" {
		t.Errorf("Getting Started items = %v", groups[0].Items)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/sidebars.js")
	_, err := loader.Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "sidebars.toml", `x = 1`)
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Load() with .toml file should return error")
	}
}

func TestLoaderLoadManifestSurfacesValidation(t *testing.T) {
	path := writeFile(t, "sidebars.yaml", `
docs:
  Guides: [intro, intro]
`)
	_, err := NewLoader(path).LoadManifest()
	if err == nil {
		t.Fatal("LoadManifest() should fail on duplicate doc ref")
	}
	if violations := domain.Violations(err); len(violations) != 1 || violations[0].DocRef != "intro" {
		t.Errorf("Violations() = %v", violations)
	}
}

func TestLoaderLoadEmptyManifest(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{file: "sidebars.json", content: `{}`},
		{file: "sidebars.json", content: ``},
		{file: "sidebars.yaml", content: "# nothing yet\n"},
		{file: "sidebars.js", content: ``},
		{file: "sidebars.js", content: "// nothing yet\n"},
		{file: "sidebars.js", content: `module.exports = {};`},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.content, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewLoader(path).LoadManifest()
			if !errors.Is(err, domain.ErrEmptyManifest) {
				t.Errorf("LoadManifest() error = %v, want ErrEmptyManifest", err)
			}
		})
	}
}

func TestParseJSModule(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want domain.Declaration
	}{
		{
			name: "compact category entries",
			src:  "module.exports = {docs: [{type:'category',label:'Grapevine',items:['overview','routes']}]};",
			want: domain.Declaration{{Name: "docs", Groups: []domain.GroupDecl{
				{Label: "Grapevine", Items: []string{"overview", "routes"}},
			}}},
		},
		{
			name: "escaped quotes",
			src:  `module.exports = {s: {'Author\'s Guide': ["a", 'it\'s', "say \"hi\""]}};`,
			want: domain.Declaration{{Name: "s", Groups: []domain.GroupDecl{
				{Label: "Author's Guide", Items: []string{"a", "it's", `say "hi"`}},
			}}},
		},
		{
			name: "exported variable",
			src: `// @ts-check
/** @type {import('@docusaurus/plugin-content-docs').SidebarsConfig} */
const sidebars = {
  docs: {Intro: ['intro'], Guides: guides},
};
const guides = ['setup', 'deploy'];

module.exports = sidebars;
`,
			want: domain.Declaration{{Name: "docs", Groups: []domain.GroupDecl{
				{Label: "Intro", Items: []string{"intro"}},
				{Label: "Guides", Items: []string{"setup", "deploy"}},
			}}},
		},
		{
			name: "export default of a variable with shorthand property",
			src: `const docs = {Start: ['intro']};
export default {docs};
`,
			want: domain.Declaration{{Name: "docs", Groups: []domain.GroupDecl{
				{Label: "Start", Items: []string{"intro"}},
			}}},
		},
		{
			name: "comments, trailing commas and slashes in strings",
			src: `module.exports = {
  docs: {
    Links: ['https://example.com/x', /* inline */ 'a//b',], // trailing
  },
};`,
			want: domain.Declaration{{Name: "docs", Groups: []domain.GroupDecl{
				{Label: "Links", Items: []string{"https://example.com/x", "a//b"}},
			}}},
		},
		{
			name: "category without items",
			src:  `module.exports = {docs: [{type: "category", label: "Soon", collapsed: false}]};`,
			want: domain.Declaration{{Name: "docs", Groups: []domain.GroupDecl{
				{Label: "Soon", Items: []string{}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.src), FormatJS)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSModuleRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax error", src: "module.exports = {docs: ["},
		{name: "no export", src: "const sidebars = {docs: {A: ['a']}};"},
		{name: "function call", src: "module.exports = require('./sidebars.json');"},
		{name: "spread", src: "const base = {a: ['x']};\nmodule.exports = {docs: {...base}};"},
		{name: "computed key", src: "module.exports = {[name]: {A: ['a']}};"},
		{name: "undeclared variable", src: "module.exports = {docs: guides};"},
		{name: "self reference", src: "const a = {docs: a};\nmodule.exports = a;"},
		{name: "null doc id", src: "module.exports = {docs: {A: ['a', null]}};"},
		{name: "boolean doc id", src: "module.exports = {docs: {A: [true]}};"},
		{name: "template literal", src: "module.exports = {docs: {A: [`a`]}};"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src), FormatJS); err == nil {
				t.Error("Parse() should return error")
			}
		})
	}
}

func TestParseJSModuleReportsLine(t *testing.T) {
	src := "module.exports = {\n  docs: {\n    A: [load()],\n  },\n};\n"
	_, err := Parse([]byte(src), FormatJS)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Parse() error = %v, want it to name line 3", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"sidebars.js":   FormatJS,
		"sidebars.CJS":  FormatJS,
		"sidebars.json": FormatJSON,
		"nav.yml":       FormatYAML,
		"nav.yaml":      FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
}

func TestProjectLoad(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	sidebars := mustWrite("sidebars.js", `module.exports = {someSidebar: {Grapevine: ['overview', 'routes']}};`)
	site := mustWrite("site.yaml", "title: G\nurl: https://g.dev\nbaseUrl: /\nonBrokenLinks: warn\n")
	mustWrite("docs/overview.md", "# Overview\n")

	loaded, err := Project{SidebarsFile: sidebars, SiteFile: site, DocsDir: filepath.Join(dir, "docs")}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Policy() != domain.PolicyWarn {
		t.Errorf("Policy() = %q, want warn", loaded.Policy())
	}
	if len(loaded.Unresolved) != 1 || loaded.Unresolved[0].DocRef != "routes" {
		t.Errorf("Unresolved = %v, want [routes]", loaded.Unresolved)
	}

	bare, err := Project{SidebarsFile: sidebars}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bare.Site != nil || bare.Catalog != nil || bare.Policy() != domain.PolicyThrow {
		t.Errorf("bare project = %+v", bare)
	}

	if _, err := (Project{SidebarsFile: sidebars, SiteFile: filepath.Join(dir, "nope.yaml")}).Load(); err == nil {
		t.Error("Load() should fail on a missing site file")
	}
}
