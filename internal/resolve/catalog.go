package resolve

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/utils"
)

// Doc is one markdown page found under the docs directory.
type Doc struct {
	ID           domain.DocRef `json:"id"`
	Path         string        `json:"path"` // relative to the docs directory
	Title        string        `json:"title,omitempty"`
	SidebarLabel string        `json:"sidebar_label,omitempty"`
}

// frontMatter holds the keys the catalog cares about.
type frontMatter struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
}

// Catalog maps doc ids to the pages that define them.
type Catalog struct {
	root string
	docs map[domain.DocRef]Doc
}

// NewCatalog builds a catalog from known docs. Later duplicates win.
func NewCatalog(root string, docs ...Doc) *Catalog {
	c := &Catalog{root: root, docs: make(map[domain.DocRef]Doc, len(docs))}
	for _, d := range docs {
		c.docs[d.ID] = d
	}
	return c
}

// Scan walks docsDir for .md and .mdx pages.
//
// A page's id is its directory relative to docsDir joined with the
// front-matter id, or with the file name without extension when the front
// matter has none. Files and directories starting with "_" or "." are skipped.
func Scan(docsDir string) (*Catalog, error) {
	info, err := os.Stat(docsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open docs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs path %s is not a directory", docsDir)
	}

	c := &Catalog{root: docsDir, docs: make(map[domain.DocRef]Doc)}
	err = filepath.WalkDir(docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != docsDir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(docsDir, p)
		if err != nil {
			return err
		}
		fm, err := readFrontMatter(p)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}

		doc := Doc{
			ID:           docID(filepath.ToSlash(rel), fm.ID),
			Path:         filepath.ToSlash(rel),
			Title:        fm.Title,
			SidebarLabel: fm.SidebarLabel,
		}
		if prev, ok := c.docs[doc.ID]; ok {
			return fmt.Errorf("doc id %q is defined by both %s and %s", doc.ID, prev.Path, doc.Path)
		}
		c.docs[doc.ID] = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan docs: %w", err)
	}
	return c, nil
}

// Root returns the scanned directory.
func (c *Catalog) Root() string { return c.root }

// Len returns the number of docs.
func (c *Catalog) Len() int { return len(c.docs) }

// Lookup returns the doc with the given id.
func (c *Catalog) Lookup(ref domain.DocRef) (Doc, bool) {
	d, ok := c.docs[ref]
	return d, ok
}

// IDs returns every doc id, sorted.
func (c *Catalog) IDs() []domain.DocRef {
	ids := make([]domain.DocRef, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Check returns every doc-ref of the manifest with no matching page, in
// rendering order.
func (c *Catalog) Check(m *domain.SidebarManifest) []Unresolved {
	var out []Unresolved
	for _, sb := range m.Sidebars() {
		for _, g := range sb.Groups {
			for pos, ref := range g.Items {
				if _, ok := c.docs[ref]; ok {
					continue
				}
				out = append(out, Unresolved{
					DocRef:   ref,
					Location: domain.Location{Sidebar: sb.Name, Group: g.Label, Position: pos},
				})
			}
		}
	}
	return out
}

// Unlisted returns the docs no sidebar links to, sorted by id.
func (c *Catalog) Unlisted(m *domain.SidebarManifest) []Doc {
	listed := make(map[domain.DocRef]bool)
	for _, ref := range m.DocRefs() {
		listed[ref] = true
	}
	var out []Doc
	for _, id := range c.IDs() {
		if !listed[id] {
			out = append(out, c.docs[id])
		}
	}
	return out
}

func docID(rel, frontMatterID string) domain.DocRef {
	dir := path.Dir(rel)
	base := strings.TrimSpace(frontMatterID)
	if base == "" {
		base = strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	}
	if dir == "." {
		return domain.DocRef(base)
	}
	return domain.DocRef(dir + "/" + base)
}

// readFrontMatter parses the leading "---" block, if any.
func readFrontMatter(p string) (frontMatter, error) {
	var fm frontMatter

	f, err := os.Open(p)
	if err != nil {
		return fm, err
	}
	defer utils.Close(f)

	sc := bufio.NewScanner(f)
	if !sc.Scan() || strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff")) != "---" {
		return fm, sc.Err()
	}

	var block strings.Builder
	closed := false
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "---" {
			closed = true
			break
		}
		block.WriteString(sc.Text())
		block.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return fm, err
	}
	if !closed {
		return fm, fmt.Errorf("unterminated front matter")
	}

	if err := yaml.Unmarshal([]byte(block.String()), &fm); err != nil {
		return fm, fmt.Errorf("invalid front matter: %w", err)
	}
	return fm, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
