package flexml

// NodeKind discriminates the closed set of node variants.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindAttr
	KindText
	KindCData
	KindComment
	KindProcInst
)

func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindAttr:
		return "attribute"
	case KindText:
		return "text"
	case KindCData:
		return "cdata"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "processing-instruction"
	default:
		return "node"
	}
}

// Node is the only way components exchange XML structure. It is a closed
// variant: the implementations are *Element, Attr, Text, CData, Comment
// and ProcInst. Nodes are constructed fresh per (de)serialization call and
// never mutated once yielded by a Cursor.
type Node interface {
	Kind() NodeKind
	node()
}

// Element is an XML element: a qualified name, its attributes and children
// in document order, and the namespace scope active inside it.
type Element struct {
	Name     ExpandedName
	Attrs    []Attr
	Children []Node
	// Scope holds the prefix bindings in force for this element's subtree.
	// Readers populate it from xmlns declarations; writers consult it when
	// choosing prefix spellings.
	Scope *Scope
	// PreferredPrefix and EnforcePrefix direct the writer's prefix choice
	// for this element's name. They carry no matching identity.
	PreferredPrefix string
	EnforcePrefix   bool
}

// NewElement returns an element with the given name and no content.
func NewElement(name ExpandedName) *Element { return &Element{Name: name} }

// WithAttrs appends attributes and returns the element for chaining.
func (e *Element) WithAttrs(attrs ...Attr) *Element {
	e.Attrs = append(e.Attrs, attrs...)
	return e
}

// WithChildren appends children and returns the element for chaining.
func (e *Element) WithChildren(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Attr is an attribute with a namespace-qualified name. Attribute order is
// preserved on input and not meaningful on output.
type Attr struct {
	Name  ExpandedName
	Value string
}

// Text is a character data node.
type Text string

// CData is a CDATA section.
type CData string

// Comment is a comment node.
type Comment string

// ProcInst is a processing instruction.
type ProcInst struct {
	Target string
	Data   string
}

func (*Element) Kind() NodeKind { return KindElement }
func (Attr) Kind() NodeKind     { return KindAttr }
func (Text) Kind() NodeKind     { return KindText }
func (CData) Kind() NodeKind    { return KindCData }
func (Comment) Kind() NodeKind  { return KindComment }
func (ProcInst) Kind() NodeKind { return KindProcInst }

func (*Element) node() {}
func (Attr) node()     {}
func (Text) node()     {}
func (CData) node()    {}
func (Comment) node()  {}
func (ProcInst) node() {}

// Equal reports structural equality of two nodes. Scopes and prefix
// preferences are surface concerns and do not participate; names compare
// by expanded identity, children and attributes by order.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Element:
		bv := b.(*Element)
		if av.Name != bv.Name || len(av.Attrs) != len(bv.Attrs) || len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Attrs {
			if av.Attrs[i] != bv.Attrs[i] {
				return false
			}
		}
		for i := range av.Children {
			if !Equal(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true
	case Attr:
		return av == b.(Attr)
	case Text:
		return av == b.(Text)
	case CData:
		return av == b.(CData)
	case Comment:
		return av == b.(Comment)
	case ProcInst:
		return av == b.(ProcInst)
	default:
		return false
	}
}

// IsWhitespace reports whether n is a text node consisting solely of XML
// whitespace characters.
func IsWhitespace(n Node) bool {
	t, ok := n.(Text)
	if !ok {
		return false
	}
	for _, r := range t {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
