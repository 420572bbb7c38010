package domain

import (
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/unicode/norm"
)

// Declaration is the literal nested input of a manifest:
// sidebar name -> group label -> ordered doc-refs, every level ordered.
type Declaration []SidebarDecl

// SidebarDecl declares one sidebar.
type SidebarDecl struct {
	Name   string
	Groups []GroupDecl
}

// GroupDecl declares one navigation group.
type GroupDecl struct {
	Label string
	Items []string
}

// BuildManifest validates a declaration and returns it as a manifest,
// unchanged and in declaration order.
//
// Every violation is reported, not only the first one. Use errors.Is with the
// Err* sentinels to test for a kind, or Violations to list them.
func BuildManifest(decl Declaration) (*SidebarManifest, error) {
	if len(decl) == 0 {
		return nil, ErrEmptyManifest
	}

	var errs error
	sidebars := make([]Sidebar, 0, len(decl))
	seenSidebars := make(map[string]bool, len(decl))

	for _, sd := range decl {
		name := labelKey(sd.Name)
		switch {
		case name == "":
			errs = multierr.Append(errs, &ValidationError{Kind: ErrEmptyLabel, Sidebar: sd.Name})
		case seenSidebars[name]:
			errs = multierr.Append(errs, &ValidationError{Kind: ErrDuplicateSidebar, Sidebar: sd.Name})
		}
		seenSidebars[name] = true

		sb := Sidebar{Name: sd.Name, Groups: make([]NavigationGroup, 0, len(sd.Groups))}
		seenLabels := make(map[string]bool, len(sd.Groups))

		for _, gd := range sd.Groups {
			label := labelKey(gd.Label)
			switch {
			case label == "":
				errs = multierr.Append(errs, &ValidationError{Kind: ErrEmptyLabel, Sidebar: sd.Name, Group: gd.Label})
			case seenLabels[label]:
				errs = multierr.Append(errs, &ValidationError{Kind: ErrDuplicateGroupLabel, Sidebar: sd.Name, Group: gd.Label})
			}
			seenLabels[label] = true

			g := NavigationGroup{Label: gd.Label, Items: make([]DocRef, 0, len(gd.Items))}
			seenRefs := make(map[string]bool, len(gd.Items))
			for _, item := range gd.Items {
				ref := labelKey(item)
				switch {
				case ref == "":
					errs = multierr.Append(errs, &ValidationError{Kind: ErrEmptyDocRef, Sidebar: sd.Name, Group: gd.Label})
				case seenRefs[ref]:
					errs = multierr.Append(errs, &ValidationError{Kind: ErrDuplicateDocRef, Sidebar: sd.Name, Group: gd.Label, DocRef: item})
				}
				seenRefs[ref] = true
				g.Items = append(g.Items, DocRef(item))
			}
			sb.Groups = append(sb.Groups, g)
		}
		sidebars = append(sidebars, sb)
	}

	if errs != nil {
		return nil, errs
	}
	return &SidebarManifest{sidebars: sidebars}, nil
}

// labelKey is the comparison key for names, labels and doc-refs: trimmed,
// NFC-normalized.
func labelKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
