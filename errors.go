package flexml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flexml/flexml/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingField      = "missing_field"       // A required slot ended unsatisfied.
	CodeUnknownItem       = "unknown_item"        // An item matched no slot where the policy forbids that.
	CodeDuplicateItem     = "duplicate_item"      // A second item matched an already-filled non-sequence slot.
	CodeOrderViolation    = "order_violation"     // An item arrived out of declared slot order.
	CodeUnboundPrefix     = "unbound_prefix"      // A prefix had no binding in scope.
	CodeNoMatchingVariant = "no_matching_variant" // Every variant of a sum type failed.
	CodeInvalidValue      = "invalid_value"       // A leaf value's own conversion failed.
	CodeWrongName         = "wrong_name"          // An element/attribute name did not match the expected one.
	CodeParseError        = "parse_error"         // The backend could not produce nodes.
	CodeCustom            = "custom"              // Escape hatch for value-specific failures.
)

// Issue represents a single (de)serialization failure.
type Issue struct {
	Path    string // Slash-separated field path (for example: /person/name).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"{urn:x}name"})
	// for diagnostics and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path == "" {
			b.WriteString(it.Code)
		} else {
			fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesOf converts an arbitrary error into Issues, wrapping non-Issues
// errors under CodeCustom at the given path.
func IssuesOf(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: CodeCustom, Message: err.Error(), Cause: err}}
}

// Localize replaces each issue's message with the translation of its code
// in the current i18n language. Params with string values are passed to
// the translator as message data.
func Localize(iss Issues) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		var data map[string]string
		for k, v := range it.Params {
			if s, ok := v.(string); ok {
				if data == nil {
					data = map[string]string{}
				}
				data[k] = s
			}
		}
		it.Message = i18n.T(it.Code, data)
		out[i] = it
	}
	return out
}

// RebaseIssues prefixes every issue path with base, so failures reported by
// a child decode surface under the parent's field path.
func RebaseIssues(base string, iss Issues) Issues {
	if base == "" || len(iss) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case strings.HasPrefix(p, "/"):
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out[i] = it
	}
	return out
}
