package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats lint results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, source string) error
}

// NewFormatter creates the formatter for "text" or "json".
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown lint output format %q (want text or json)", format)
	}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, result *Result, source string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Linting %s\n", source)
	b.WriteString(strings.Repeat("━", 60) + "\n")

	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "%s %s [%s]\n", icon(issue.Severity), issue.Message, issue.Rule)
		if where := location(issue); where != "" {
			fmt.Fprintf(&b, "  at %s\n", where)
		}
	}
	if len(result.Issues) > 0 {
		b.WriteString(strings.Repeat("━", 60) + "\n")
	}

	fmt.Fprintf(&b, "%d sidebars, %d groups, %d doc refs\n",
		result.Stats.Sidebars, result.Stats.Groups, result.Stats.DocRefs)
	fmt.Fprintf(&b, "%d error%s, %d warning%s, %d info\n",
		result.ErrorCount(), pluralize(result.ErrorCount()),
		result.WarningCount(), pluralize(result.WarningCount()),
		result.InfoCount())

	_, err := io.WriteString(w, b.String())
	return err
}

func icon(s Severity) string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func location(issue Issue) string {
	parts := make([]string, 0, 2)
	if issue.Sidebar != "" {
		parts = append(parts, "sidebar "+fmt.Sprintf("%q", issue.Sidebar))
	}
	if issue.Group != "" {
		parts = append(parts, "group "+fmt.Sprintf("%q", issue.Group))
	}
	return strings.Join(parts, ", ")
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Source       string      `json:"source"`
	Sidebars     int         `json:"sidebars"`
	Groups       int         `json:"groups"`
	DocRefs      int         `json:"doc_refs"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Sidebar  string `json:"sidebar,omitempty"`
	Group    string `json:"group,omitempty"`
	DocRef   string `json:"doc_ref,omitempty"`
}

func (f *JSONFormatter) Format(w io.Writer, result *Result, source string) error {
	out := JSONOutput{
		Source:       source,
		Sidebars:     result.Stats.Sidebars,
		Groups:       result.Stats.Groups,
		DocRefs:      result.Stats.DocRefs,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		InfoCount:    result.InfoCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, JSONIssue{
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Message:  issue.Message,
			Sidebar:  issue.Sidebar,
			Group:    issue.Group,
			DocRef:   string(issue.DocRef),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
