package domain

// DocRef identifies a documentation page as the external renderer knows it.
// Example: "overview", "tutorials/send-response"
type DocRef string

// NavigationGroup is a labeled, ordered cluster of doc links shown together
// in a sidebar.
type NavigationGroup struct {
	// Label is the display label. It may contain spaces and capitals.
	// Example: "Style Guide"
	Label string `json:"label"`

	// Items are rendered in slice order.
	Items []DocRef `json:"items"`
}

// Sidebar is one named navigation tree of a documentation site.
type Sidebar struct {
	// Name is the key the renderer looks the sidebar up by.
	// Example: someSidebar
	Name string `json:"name"`

	// Groups are rendered in slice order.
	Groups []NavigationGroup `json:"groups"`
}

// Location pinpoints a doc-ref inside a manifest.
type Location struct {
	Sidebar  string `json:"sidebar"`
	Group    string `json:"group"`
	Position int    `json:"position"` // zero-based index inside the group
}

// Stats summarizes the size of a manifest.
type Stats struct {
	Sidebars int `json:"sidebars"`
	Groups   int `json:"groups"`
	DocRefs  int `json:"doc_refs"`
}

// SidebarManifest is the full navigation declaration for one documentation site.
//
// It is built once by BuildManifest and never mutated afterwards. Accessors
// hand out copies so callers cannot change the shared value.
type SidebarManifest struct {
	sidebars []Sidebar
}

// Sidebars returns a copy of all sidebars in declaration order.
func (m *SidebarManifest) Sidebars() []Sidebar {
	if m == nil {
		return nil
	}
	out := make([]Sidebar, len(m.sidebars))
	for i, sb := range m.sidebars {
		out[i] = sb.clone()
	}
	return out
}

// Sidebar returns a copy of the sidebar with the given name.
func (m *SidebarManifest) Sidebar(name string) (Sidebar, bool) {
	if m == nil {
		return Sidebar{}, false
	}
	for _, sb := range m.sidebars {
		if sb.Name == name {
			return sb.clone(), true
		}
	}
	return Sidebar{}, false
}

// Names returns the sidebar names in declaration order.
func (m *SidebarManifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.sidebars))
	for _, sb := range m.sidebars {
		names = append(names, sb.Name)
	}
	return names
}

// DocRefs flattens every doc-ref in rendering order.
// A doc listed under two groups appears twice.
func (m *SidebarManifest) DocRefs() []DocRef {
	if m == nil {
		return nil
	}
	var refs []DocRef
	for _, sb := range m.sidebars {
		for _, g := range sb.Groups {
			refs = append(refs, g.Items...)
		}
	}
	return refs
}

// Locate returns every place the doc-ref is listed, in rendering order.
func (m *SidebarManifest) Locate(ref DocRef) []Location {
	if m == nil {
		return nil
	}
	var locs []Location
	for _, sb := range m.sidebars {
		for _, g := range sb.Groups {
			for pos, item := range g.Items {
				if item == ref {
					locs = append(locs, Location{Sidebar: sb.Name, Group: g.Label, Position: pos})
				}
			}
		}
	}
	return locs
}

// Stats counts sidebars, groups and doc-refs.
func (m *SidebarManifest) Stats() Stats {
	var s Stats
	if m == nil {
		return s
	}
	s.Sidebars = len(m.sidebars)
	for _, sb := range m.sidebars {
		s.Groups += len(sb.Groups)
		for _, g := range sb.Groups {
			s.DocRefs += len(g.Items)
		}
	}
	return s
}

// Declaration converts the manifest back into its literal input shape.
func (m *SidebarManifest) Declaration() Declaration {
	if m == nil {
		return nil
	}
	decl := make(Declaration, 0, len(m.sidebars))
	for _, sb := range m.sidebars {
		sd := SidebarDecl{Name: sb.Name, Groups: make([]GroupDecl, 0, len(sb.Groups))}
		for _, g := range sb.Groups {
			items := make([]string, len(g.Items))
			for i, item := range g.Items {
				items[i] = string(item)
			}
			sd.Groups = append(sd.Groups, GroupDecl{Label: g.Label, Items: items})
		}
		decl = append(decl, sd)
	}
	return decl
}

// Clone returns a deep copy.
func (m *SidebarManifest) Clone() *SidebarManifest {
	if m == nil {
		return nil
	}
	return &SidebarManifest{sidebars: m.Sidebars()}
}

// Equal reports whether both manifests hold the same ordered structure.
func (m *SidebarManifest) Equal(other *SidebarManifest) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.sidebars) != len(other.sidebars) {
		return false
	}
	for i := range m.sidebars {
		a, b := m.sidebars[i], other.sidebars[i]
		if a.Name != b.Name || len(a.Groups) != len(b.Groups) {
			return false
		}
		for j := range a.Groups {
			ga, gb := a.Groups[j], b.Groups[j]
			if ga.Label != gb.Label || len(ga.Items) != len(gb.Items) {
				return false
			}
			for k := range ga.Items {
				if ga.Items[k] != gb.Items[k] {
					return false
				}
			}
		}
	}
	return true
}

func (s Sidebar) clone() Sidebar {
	out := Sidebar{Name: s.Name, Groups: make([]NavigationGroup, len(s.Groups))}
	for i, g := range s.Groups {
		out.Groups[i] = NavigationGroup{
			Label: g.Label,
			Items: append([]DocRef(nil), g.Items...),
		}
	}
	return out
}
