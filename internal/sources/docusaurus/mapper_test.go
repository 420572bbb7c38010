package docusaurus

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func parseNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(src), &root); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	return &root
}

func TestMapperMapDeclarationKeepsKeyOrder(t *testing.T) {
	// Keys deliberately out of alphabetical order.
	root := parseNode(t, `
zeta:
  Zulu: [z2, z1]
  Alpha: [a1]
alpha:
  Mike: [m1]
`)

	decl, err := NewMapper().MapDeclaration(root)
	if err != nil {
		t.Fatalf("MapDeclaration() error = %v", err)
	}

	if len(decl) != 2 || decl[0].Name != "zeta" || decl[1].Name != "alpha" {
		t.Fatalf("sidebar order = %+v, want [zeta alpha]", decl)
	}
	if decl[0].Groups[0].Label != "Zulu" || decl[0].Groups[1].Label != "Alpha" {
		t.Errorf("group order = %+v, want [Zulu Alpha]", decl[0].Groups)
	}
	if items := decl[0].Groups[0].Items; items[0] != "z2" || items[1] != "z1" {
		t.Errorf("item order = %v, want [z2 z1]", items)
	}
}

func TestMapperMapDeclarationRejectsUnsupportedShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "root is a list", src: `[a, b]`},
		{name: "sidebar is a scalar", src: `docs: intro`},
		{name: "group is a scalar", src: "docs:\n  Guides: intro"},
		{name: "doc id is a mapping", src: "docs:\n  Guides: [{type: link, href: x}]"},
		{name: "list entry is a doc id", src: "docs:\n  - intro"},
		{name: "list entry is a link", src: "docs:\n  - {type: link, label: X, href: https://x}"},
		{name: "null doc id", src: "docs:\n  Guides: [intro, null]"},
		{name: "tilde doc id", src: "docs:\n  Guides: [~]"},
		{name: "boolean doc id", src: "docs:\n  Guides: [true]"},
		{name: "null doc id in category", src: "docs:\n  - {type: category, label: A, items: [a, ~]}"},
		{name: "nested category", src: "docs:\n  - {type: category, label: A, items: [{type: category, label: B, items: [b]}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper().MapDeclaration(parseNode(t, tt.src))
			if err == nil {
				t.Error("MapDeclaration() should return error")
			}
		})
	}
}

func TestMapperMapDeclarationEmptyDocument(t *testing.T) {
	decl, err := NewMapper().MapDeclaration(parseNode(t, ``))
	if err != nil {
		t.Fatalf("MapDeclaration() error = %v", err)
	}
	if len(decl) != 0 {
		t.Errorf("MapDeclaration() = %v, want empty", decl)
	}
}

func TestMapperMapDeclarationZeroNode(t *testing.T) {
	decl, err := NewMapper().MapDeclaration(&yaml.Node{})
	if err != nil {
		t.Fatalf("MapDeclaration() error = %v", err)
	}
	if len(decl) != 0 {
		t.Errorf("MapDeclaration() = %v, want empty", decl)
	}
}

func TestMapperMapDeclarationKeepsDocIDText(t *testing.T) {
	decl, err := NewMapper().MapDeclaration(parseNode(t, "docs:\n  Guides: [01, 1.0, 'null', \"true\"]"))
	if err != nil {
		t.Fatalf("MapDeclaration() error = %v", err)
	}
	want := []string{"01", "1.0", "null", "true"}
	got := decl[0].Groups[0].Items
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMapperMapCategoryWithoutItems(t *testing.T) {
	decl, err := NewMapper().MapDeclaration(parseNode(t, "docs:\n  - {type: category, label: Soon}"))
	if err != nil {
		t.Fatalf("MapDeclaration() error = %v", err)
	}
	if g := decl[0].Groups[0]; g.Label != "Soon" || g.Items == nil || len(g.Items) != 0 {
		t.Errorf("group = %+v, want empty non-nil items", g)
	}
}
