package flexml

// Marshaler is implemented by values that can write themselves through a
// Serializer.
type Marshaler interface {
	MarshalXML(s Serializer) error
}

// AttrMarshaler is implemented by values that serialize as an attribute.
// Keeping it separate from Marshaler lets one type choose per call site
// whether it becomes an element or an attribute.
type AttrMarshaler interface {
	MarshalXMLAttr() (Attr, error)
}

// Serializer receives serialization instructions from a Marshaler and
// produces node-model output. Implementations thread namespace scope
// through the sub-serializer returned by ElementWriter.Children; there is
// no global namespace state.
type Serializer interface {
	// Scope is the namespace scope in force at the write position.
	Scope() *Scope

	WriteText(text string) error
	WriteCData(data string) error
	WriteComment(text string) error
	WriteProcInst(target, data string) error

	// WriteElement starts an element. The element's name (and any
	// namespace declarations it forces) is fixed before the first
	// attribute is written; this ordering is a correctness requirement of
	// the protocol, not an optimization.
	WriteElement(name ExpandedName) (ElementWriter, error)
}

// ElementWriter writes one element's prefix policy, attributes, and
// children, in that order, and is finished with End.
type ElementWriter interface {
	// SetPrefix records the preferred prefix for the element name and
	// whether to enforce it even when the namespace is already bound.
	// It must be called before any attribute is written.
	SetPrefix(preferred string, enforce bool) error

	// WriteAttr writes one attribute. Calling it after Children is a
	// protocol violation.
	WriteAttr(name ExpandedName, value string) error

	// Children finishes the attribute list and returns a serializer for
	// the element's content, scoped to the element.
	Children() (Serializer, error)

	// End finishes the element. An element ended without a Children call
	// is empty.
	End() error
}

// WriteSeq writes a run of values through s in order.
func WriteSeq(s Serializer, items ...Marshaler) error {
	for _, it := range items {
		if it == nil {
			continue
		}
		if err := it.MarshalXML(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteNode replays an already-built node through a serializer. Attr nodes
// cannot appear in element content and are rejected.
func WriteNode(s Serializer, n Node) error {
	switch v := n.(type) {
	case *Element:
		ew, err := s.WriteElement(v.Name)
		if err != nil {
			return err
		}
		if v.PreferredPrefix != "" || v.EnforcePrefix {
			if err := ew.SetPrefix(v.PreferredPrefix, v.EnforcePrefix); err != nil {
				return err
			}
		}
		for _, a := range v.Attrs {
			if err := ew.WriteAttr(a.Name, a.Value); err != nil {
				return err
			}
		}
		if len(v.Children) == 0 {
			return ew.End()
		}
		sub, err := ew.Children()
		if err != nil {
			return err
		}
		for _, child := range v.Children {
			if err := WriteNode(sub, child); err != nil {
				return err
			}
		}
		return ew.End()
	case Text:
		return s.WriteText(string(v))
	case CData:
		return s.WriteCData(string(v))
	case Comment:
		return s.WriteComment(string(v))
	case ProcInst:
		return s.WriteProcInst(v.Target, v.Data)
	case Attr:
		return Issues{{Code: CodeCustom, Message: "attribute node is not valid element content"}}
	default:
		return Issues{{Code: CodeCustom, Message: "unknown node kind"}}
	}
}
