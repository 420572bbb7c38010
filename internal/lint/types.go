package lint

import (
	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
)

// Severity indicates the importance level of a lint issue.
type Severity int

const (
	// SeverityInfo marks facts worth knowing, e.g. pages no sidebar links to.
	SeverityInfo Severity = iota
	// SeverityWarning marks cases the manifest allows but authors usually did not intend.
	SeverityWarning
	// SeverityError marks issues that break the site build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single finding, located inside the manifest.
type Issue struct {
	Severity Severity
	Rule     string // e.g. "cross-group-duplicate"
	Message  string
	Sidebar  string
	Group    string
	DocRef   domain.DocRef
}

// Result contains all issues found during linting.
type Result struct {
	Issues []Issue
	Stats  domain.Stats
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int { return r.count(SeverityInfo) }

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Rule checks a manifest. The catalog is nil when no docs directory was given;
// rules that need it return nothing in that case.
type Rule interface {
	Name() string
	Check(m *domain.SidebarManifest, catalog *resolve.Catalog) []Issue
}
