package nfoerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure so callers can branch without parsing
// message strings.
type Kind int

const (
	// KindConfiguration covers missing or invalid configuration. Fatal,
	// nothing runs after it.
	KindConfiguration Kind = iota
	// KindUnknownSite is a site key with no registration. Fatal.
	KindUnknownSite
	// KindInvalidURL is a structurally broken or non-http(s) URL.
	KindInvalidURL
	// KindValidation is a movie record failing field rules. Recoverable
	// through correction in manual/interactive modes.
	KindValidation
	// KindScraping means the page was fetched but the expected structure
	// was absent. Treated like a validation failure by the run loop.
	KindScraping
	// KindNetwork means the retry budget is exhausted.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUnknownSite:
		return "unknown_site"
	case KindInvalidURL:
		return "invalid_url"
	case KindValidation:
		return "validation"
	case KindScraping:
		return "scraping"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// ErrAborted is returned by Run when the operator cancels a correction
// session. No file is produced.
var ErrAborted = errors.New("aborted by operator")

// Error is a kinded pipeline error with enough context for the run loop and
// the CLI to act on it.
type Error struct {
	Kind       Kind
	Site       string   // site key, when known
	URL        string   // subject URL, when known
	Violations []string // field violations for KindValidation
	Err        error    // wrapped cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Site != "" {
		fmt.Fprintf(&b, " site=%s", e.Site)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " url=%s", e.URL)
	}
	if len(e.Violations) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a kinded error wrapping cause (cause may be nil).
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// Newf builds a kinded error from a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Fatal reports whether err is a kind the run loop never recovers from.
func Fatal(err error) bool {
	return Is(err, KindConfiguration) || Is(err, KindUnknownSite)
}
