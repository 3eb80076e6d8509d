package flexml

import "strconv"

// Scope is an immutable prefix-to-namespace binding table active at a point
// in a document. Binding a prefix produces a new child scope; the chain up
// to the document root is never mutated, so a scope may be shared read-only
// by every node produced while it was active.
//
// The nil *Scope is the empty root scope: nothing is bound except the
// implicit xml and xmlns prefixes.
type Scope struct {
	parent *Scope
	prefix string
	uri    string
}

// Bind returns a child scope in which prefix maps to uri. The receiver is
// unchanged. Binding the empty prefix sets the default namespace; binding a
// prefix to the empty URI undeclares it.
func (s *Scope) Bind(prefix, uri string) *Scope {
	return &Scope{parent: s, prefix: prefix, uri: uri}
}

// Lookup resolves prefix to a namespace URI. The empty prefix looks up the
// default namespace. The xml and xmlns prefixes are implicitly bound per
// the Namespaces in XML recommendation.
func (s *Scope) Lookup(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return NamespaceXML, true
	case "xmlns":
		return NamespaceXMLNS, true
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.prefix == prefix {
			if cur.uri == "" {
				return "", false // undeclared
			}
			return cur.uri, true
		}
	}
	return "", false
}

// PrefixOf returns a prefix bound to uri in s, preferring the innermost
// binding. A binding is only usable if it has not been shadowed by a nearer
// binding of the same prefix to a different URI.
func (s *Scope) PrefixOf(uri string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.uri != uri {
			continue
		}
		if bound, ok := s.Lookup(cur.prefix); ok && bound == uri {
			return cur.prefix, true
		}
	}
	return "", false
}

// Resolve expands a surface QName against the scope. A missing prefix
// resolves to the default namespace binding, or to "no namespace" when none
// is bound; any other prefix must be found in the scope chain.
func (s *Scope) Resolve(q QName) (ExpandedName, error) {
	if q.Prefix == "" {
		uri, _ := s.Lookup("")
		return ExpandedName{Local: q.Local, Namespace: uri}, nil
	}
	uri, ok := s.Lookup(q.Prefix)
	if !ok {
		return ExpandedName{}, Issues{{
			Code:    CodeUnboundPrefix,
			Message: "prefix " + strconv.Quote(q.Prefix) + " is not bound in scope",
		}}
	}
	return ExpandedName{Local: q.Local, Namespace: uri}, nil
}

// ChoosePrefix picks the prefix to spell uri with. It is the only place
// prefix allocation happens, so one scope chain never ends up emitting two
// prefixes for the same URI unless a caller enforces a specific spelling.
//
// If uri already has a usable prefix in s and enforce is false, that prefix
// is reused and no declaration is needed. Otherwise preferred (or a
// generated ns0, ns1, ... prefix when preferred is empty and the default
// prefix is taken) is bound in a new child scope, and declared reports that
// the caller must emit the corresponding xmlns declaration on the current
// element. The returned scope must be used for that element's subtree.
func (s *Scope) ChoosePrefix(uri, preferred string, enforce bool) (prefix string, next *Scope, declared bool) {
	if uri == "" {
		// No namespace: usable only while no default namespace is active.
		if def, ok := s.Lookup(""); ok && def != "" {
			return "", s.Bind("", ""), true
		}
		return "", s, false
	}
	if existing, ok := s.PrefixOf(uri); ok {
		if !enforce || existing == preferred {
			return existing, s, false
		}
	}
	prefix = preferred
	if prefix == "" {
		// Prefer the default prefix unless it is already bound elsewhere.
		if def, ok := s.Lookup(""); !ok || def == uri {
			return "", s.Bind("", uri), true
		}
		prefix = s.generatePrefix()
	}
	return prefix, s.Bind(prefix, uri), true
}

func (s *Scope) generatePrefix() string {
	for i := 0; ; i++ {
		candidate := "ns" + strconv.Itoa(i)
		if _, taken := s.Lookup(candidate); !taken {
			return candidate
		}
	}
}

// Bindings flattens the visible (non-shadowed, non-implicit) bindings of
// the scope chain into a prefix-to-URI map, outermost first.
func (s *Scope) Bindings() map[string]string {
	out := map[string]string{}
	var walk func(*Scope)
	walk = func(cur *Scope) {
		if cur == nil {
			return
		}
		walk(cur.parent)
		if cur.uri == "" {
			delete(out, cur.prefix)
			return
		}
		out[cur.prefix] = cur.uri
	}
	walk(s)
	return out
}
