package lint

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
)

// DefaultRules returns every rule, in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		&CrossGroupDuplicateRule{},
		&EmptyGroupRule{},
		&UnresolvedDocRefRule{},
		&UnlistedDocRule{},
	}
}

// Lint runs the default rules against the manifest.
func Lint(m *domain.SidebarManifest, catalog *resolve.Catalog) *Result {
	return Run(m, catalog, DefaultRules()...)
}

// Run runs the given rules in order.
func Run(m *domain.SidebarManifest, catalog *resolve.Catalog, rules ...Rule) *Result {
	res := &Result{Stats: m.Stats()}
	for _, r := range rules {
		res.Issues = append(res.Issues, r.Check(m, catalog)...)
	}
	return res
}

// CrossGroupDuplicateRule reports a doc listed in more than one group. The
// manifest allows it; whether the second link is intended is up to the author.
type CrossGroupDuplicateRule struct{}

func (r *CrossGroupDuplicateRule) Name() string { return "cross-group-duplicate" }

func (r *CrossGroupDuplicateRule) Check(m *domain.SidebarManifest, _ *resolve.Catalog) []Issue {
	var issues []Issue
	reported := make(map[domain.DocRef]bool)
	for _, ref := range m.DocRefs() {
		if reported[ref] {
			continue
		}
		locs := m.Locate(ref)
		if len(locs) < 2 {
			continue
		}
		reported[ref] = true

		where := make([]string, 0, len(locs))
		for _, l := range locs {
			where = append(where, fmt.Sprintf("%s/%s", l.Sidebar, l.Group))
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("doc %q is listed under %d groups: %s", ref, len(locs), strings.Join(where, ", ")),
			Sidebar:  locs[1].Sidebar,
			Group:    locs[1].Group,
			DocRef:   ref,
		})
	}
	return issues
}

// EmptyGroupRule reports groups without any doc.
type EmptyGroupRule struct{}

func (r *EmptyGroupRule) Name() string { return "empty-group" }

func (r *EmptyGroupRule) Check(m *domain.SidebarManifest, _ *resolve.Catalog) []Issue {
	var issues []Issue
	for _, sb := range m.Sidebars() {
		if len(sb.Groups) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("sidebar %q has no groups", sb.Name),
				Sidebar:  sb.Name,
			})
		}
		for _, g := range sb.Groups {
			if len(g.Items) > 0 {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("group %q has no docs", g.Label),
				Sidebar:  sb.Name,
				Group:    g.Label,
			})
		}
	}
	return issues
}

// UnresolvedDocRefRule reports doc-refs with no page in the catalog.
type UnresolvedDocRefRule struct{}

func (r *UnresolvedDocRefRule) Name() string { return "unresolved-doc-ref" }

func (r *UnresolvedDocRefRule) Check(m *domain.SidebarManifest, catalog *resolve.Catalog) []Issue {
	if catalog == nil {
		return nil
	}
	var issues []Issue
	for _, u := range catalog.Check(m) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("doc %q has no page under %s", u.DocRef, catalog.Root()),
			Sidebar:  u.Sidebar,
			Group:    u.Group,
			DocRef:   u.DocRef,
		})
	}
	return issues
}

// UnlistedDocRule reports pages no sidebar links to.
type UnlistedDocRule struct{}

func (r *UnlistedDocRule) Name() string { return "unlisted-doc" }

func (r *UnlistedDocRule) Check(m *domain.SidebarManifest, catalog *resolve.Catalog) []Issue {
	if catalog == nil {
		return nil
	}
	var issues []Issue
	for _, d := range catalog.Unlisted(m) {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("page %s is not linked from any sidebar", d.Path),
			DocRef:   d.ID,
		})
	}
	return issues
}
