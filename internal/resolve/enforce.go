package resolve

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// ErrUnresolvedDocRef is wrapped by every error Enforce returns.
var ErrUnresolvedDocRef = errors.New("unresolved doc ref")

// Unresolved is a doc-ref with no matching page.
type Unresolved struct {
	DocRef domain.DocRef `json:"doc_ref"`
	domain.Location
}

func (u Unresolved) String() string {
	return fmt.Sprintf("%q (sidebar %q, group %q, position %d)", u.DocRef, u.Sidebar, u.Group, u.Position)
}

// Enforce applies a broken-link policy to unresolved doc-refs:
// throw returns an error, warn and log write one entry per ref at warn and
// info level, ignore does nothing.
func Enforce(unresolved []Unresolved, policy domain.BrokenLinkPolicy, log logger.Logger) error {
	if len(unresolved) == 0 {
		return nil
	}

	switch policy {
	case domain.PolicyIgnore:
		return nil
	case domain.PolicyWarn, domain.PolicyLog:
		emit := log.Info
		if policy == domain.PolicyWarn {
			emit = log.Warn
		}
		for _, u := range unresolved {
			emit("Doc ref does not resolve to a page",
				logger.String("doc_ref", string(u.DocRef)),
				logger.String("sidebar", u.Sidebar),
				logger.String("group", u.Group),
				logger.Int("position", u.Position),
			)
		}
		return nil
	default:
		var errs error
		for _, u := range unresolved {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnresolvedDocRef, u))
		}
		return errs
	}
}
