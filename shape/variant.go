package shape

import (
	flexml "github.com/flexml/flexml"
)

// Variant is one alternative of a sum type. Try decodes from the cursor;
// a nil return claims the input. Try may consume items only on success,
// which the Trial driver guarantees by checkpointing around each attempt.
type Variant struct {
	Name string
	Try  func(cur *flexml.Cursor) error
}

// NodeVariant builds a Variant that consumes exactly one node, feeding it
// to decode.
func NodeVariant(name string, decode func(flexml.Node) error) Variant {
	return Variant{Name: name, Try: func(cur *flexml.Cursor) error {
		n, ok := cur.Next()
		if !ok {
			return flexml.Issues{{Code: flexml.CodeParseError, Message: "no input left"}}
		}
		return decode(n)
	}}
}

// Trial resolves a sum type by attempting variants in declaration order
// and returning the name of the first whose Try succeeds. A failed attempt
// is rolled back before the next one runs, so variant order decides ties
// deterministically. When every variant fails, the error carries one
// no-match issue plus each variant's own failure rebased under its name.
func Trial(cur *flexml.Cursor, variants []Variant) (string, error) {
	var collected flexml.Issues
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
		ck := cur.Checkpoint()
		if err := v.Try(cur); err != nil {
			cur.Rollback(ck)
			collected = append(collected, flexml.RebaseIssues("/"+v.Name, flexml.IssuesOf("", err))...)
			continue
		}
		cur.Commit(ck)
		return v.Name, nil
	}
	iss := flexml.Issues{{
		Code:    flexml.CodeNoMatchingVariant,
		Message: "no variant accepted the input",
		Params:  map[string]any{"variants": names},
	}}
	return "", append(iss, collected...)
}
