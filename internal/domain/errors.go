package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrEmptyManifest is returned when a declaration holds zero sidebars.
	ErrEmptyManifest = errors.New("empty manifest")
	// ErrDuplicateGroupLabel is returned when two groups of one sidebar share a label.
	ErrDuplicateGroupLabel = errors.New("duplicate group label")
	// ErrDuplicateDocRef is returned when a doc-ref appears twice within one group.
	ErrDuplicateDocRef = errors.New("duplicate doc ref")
	// ErrDuplicateSidebar is returned when two sidebars share a name.
	ErrDuplicateSidebar = errors.New("duplicate sidebar")
	// ErrEmptyLabel is returned for a blank sidebar name or group label.
	ErrEmptyLabel = errors.New("empty label")
	// ErrEmptyDocRef is returned for a blank doc-ref.
	ErrEmptyDocRef = errors.New("empty doc ref")
)

// ValidationError describes one violation found while building a manifest.
// It unwraps to one of the Err* sentinels above.
type ValidationError struct {
	Kind    error
	Sidebar string
	Group   string
	DocRef  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Sidebar != "" {
		fmt.Fprintf(&b, ": sidebar %q", e.Sidebar)
	}
	if e.Group != "" {
		fmt.Fprintf(&b, ", group %q", e.Group)
	}
	if e.DocRef != "" {
		fmt.Fprintf(&b, ", doc %q", e.DocRef)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Violations extracts every *ValidationError carried by err, also when the
// aggregate has been wrapped with fmt.Errorf.
func Violations(err error) []*ValidationError {
	errs := multierr.Errors(err)
	var group interface{ Errors() []error }
	if len(errs) == 1 && errors.As(err, &group) {
		errs = group.Errors()
	}

	var out []*ValidationError
	for _, e := range errs {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out = append(out, ve)
		}
	}
	return out
}
