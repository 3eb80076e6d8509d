package flexml

import (
	"fmt"
	"strings"
)

// Well-known namespace URIs.
const (
	NamespaceXML   = "http://www.w3.org/XML/1998/namespace"
	NamespaceXMLNS = "http://www.w3.org/2000/xmlns/"
	NamespaceXHTML = "http://www.w3.org/1999/xhtml"
	NamespaceXS    = "http://www.w3.org/2001/XMLSchema"
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
)

// ExpandedName is the namespace-qualified identity of an element or
// attribute: a local name plus the namespace URI it is scoped under.
// An empty Namespace means "no namespace". Two names are equal iff both
// parts are equal, regardless of the prefix spelling on the wire.
type ExpandedName struct {
	Local     string
	Namespace string
}

// Name returns an ExpandedName in no namespace.
func Name(local string) ExpandedName { return ExpandedName{Local: local} }

// NameNS returns an ExpandedName in the given namespace.
func NameNS(local, ns string) ExpandedName {
	return ExpandedName{Local: local, Namespace: ns}
}

// IsZero reports whether the name is the zero value.
func (n ExpandedName) IsZero() bool { return n.Local == "" && n.Namespace == "" }

// String renders the name in Clark notation: {uri}local, or just local
// when the name has no namespace.
func (n ExpandedName) String() string {
	if n.Namespace == "" {
		return n.Local
	}
	return "{" + n.Namespace + "}" + n.Local
}

// QName is the surface form of a name as spelled in a document: an
// optional prefix plus a local name. It carries no identity of its own;
// resolve it against a Scope to obtain an ExpandedName.
type QName struct {
	Prefix string
	Local  string
}

// ParseQName splits "prefix:local" (or plain "local") and validates both
// parts as XML names.
func ParseQName(s string) (QName, error) {
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		local, prefix = prefix, ""
	}
	if prefix != "" {
		if err := CheckName(prefix); err != nil {
			return QName{}, fmt.Errorf("invalid prefix %q: %w", prefix, err)
		}
	}
	if err := CheckName(local); err != nil {
		return QName{}, fmt.Errorf("invalid local name %q: %w", local, err)
	}
	return QName{Prefix: prefix, Local: local}, nil
}

// String renders the qualified name as written, "prefix:local" or "local".
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// CheckName validates s against the XML 1.0 Name production (colons
// excluded; prefix and local part are validated separately).
//
// Reference: https://www.w3.org/TR/xml/#sec-common-syn
func CheckName(s string) error {
	if s == "" {
		return Issues{{Code: CodeInvalidValue, Message: "empty name"}}
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return Issues{{
					Code:    CodeInvalidValue,
					Message: fmt.Sprintf("invalid name start character %q", r),
				}}
			}
			continue
		}
		if !isNameChar(r) {
			return Issues{{
				Code:    CodeInvalidValue,
				Message: fmt.Sprintf("invalid name character %q at index %d", r, i),
			}}
		}
	}
	return nil
}

func isNameStartChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r == '_', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D, r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(r rune) bool {
	if isNameStartChar(r) {
		return true
	}
	switch {
	case r == '-', r == '.', r >= '0' && r <= '9':
		return true
	case r == 0xB7, r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}
