package flexml

import "strconv"

// Unmarshaler is implemented by values that read themselves from an
// element through a Deserializer.
type Unmarshaler interface {
	UnmarshalXML(d Deserializer) error
}

// Deserializer gives access to one element under deserialization: its
// expanded name, the namespace scope it was read in, and two independently
// cursored accessors over its attributes and its children. Rollback on the
// cursors is the only undo mechanism; nodes yielded by them are never
// mutated, so any number of nested matching or variant attempts can
// explore and discard partial consumption safely.
type Deserializer interface {
	Name() ExpandedName
	Scope() *Scope
	Attrs() *Cursor
	Children() *Cursor
}

type elementReader struct {
	el       *Element
	attrs    *Cursor
	children *Cursor
}

// NewElementReader returns a Deserializer over el. The element's attribute
// list is exposed as Attr nodes on the attribute cursor.
func NewElementReader(el *Element) Deserializer {
	attrs := make([]Node, len(el.Attrs))
	for i, a := range el.Attrs {
		attrs[i] = a
	}
	return &elementReader{
		el:       el,
		attrs:    NewCursor(attrs),
		children: NewCursor(el.Children),
	}
}

func (r *elementReader) Name() ExpandedName { return r.el.Name }
func (r *elementReader) Scope() *Scope      { return r.el.Scope }
func (r *elementReader) Attrs() *Cursor     { return r.attrs }
func (r *elementReader) Children() *Cursor  { return r.children }

// FromNode deserializes v from n, which must be an element.
func FromNode(n Node, v Unmarshaler) error {
	el, ok := n.(*Element)
	if !ok {
		return Issues{{
			Code:    CodeInvalidValue,
			Message: "expected an element, got " + n.Kind().String(),
		}}
	}
	return v.UnmarshalXML(NewElementReader(el))
}

// ExpectName fails with CodeWrongName unless d's element has the given
// expanded name.
func ExpectName(d Deserializer, name ExpandedName) error {
	if d.Name() == name {
		return nil
	}
	return Issues{{
		Code:    CodeWrongName,
		Message: "expected " + name.String() + ", got " + d.Name().String(),
		Params:  map[string]any{"expected": name.String(), "got": d.Name().String()},
	}}
}

// DecodeString extracts character data from a node: the body of a text or
// CDATA node, the value of an attribute, or the concatenated text content
// of an element.
func DecodeString(n Node) (string, error) {
	switch v := n.(type) {
	case Text:
		return string(v), nil
	case CData:
		return string(v), nil
	case Attr:
		return v.Value, nil
	case *Element:
		return ElementText(v), nil
	default:
		return "", Issues{{
			Code:    CodeInvalidValue,
			Message: "cannot read character data from " + n.Kind().String(),
		}}
	}
}

// ElementText concatenates the text and CDATA children of el, recursing
// into child elements the way document text extraction usually does.
func ElementText(el *Element) string {
	var out []byte
	var walk func(children []Node)
	walk = func(children []Node) {
		for _, c := range children {
			switch v := c.(type) {
			case Text:
				out = append(out, v...)
			case CData:
				out = append(out, v...)
			case *Element:
				walk(v.Children)
			}
		}
	}
	walk(el.Children)
	return string(out)
}

// DecodeInt parses the node's character data as a base-10 integer.
func DecodeInt(n Node) (int64, error) {
	s, err := DecodeString(n)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		return 0, invalidValue(s, "integer", perr)
	}
	return v, nil
}

// DecodeFloat parses the node's character data as a float.
func DecodeFloat(n Node) (float64, error) {
	s, err := DecodeString(n)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, invalidValue(s, "float", perr)
	}
	return v, nil
}

// DecodeBool parses the node's character data as an xs:boolean-style
// value: true/false/1/0.
func DecodeBool(n Node) (bool, error) {
	s, err := DecodeString(n)
	if err != nil {
		return false, err
	}
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, invalidValue(s, "boolean", nil)
	}
}

func invalidValue(text, want string, cause error) error {
	return Issues{{
		Code:    CodeInvalidValue,
		Message: "cannot parse " + strconv.Quote(text) + " as " + want,
		Cause:   cause,
	}}
}
