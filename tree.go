package flexml

// NodeBuilder is a Serializer that materializes writes as Node values
// instead of wire syntax. It is the tree half of the protocol: values
// serialize into nodes, and nodes are handed to a backend (or compared,
// or deserialized again) separately.
type NodeBuilder struct {
	scope *Scope
	nodes []Node
}

// NewNodeBuilder returns a builder writing at the given scope. A nil scope
// is the empty root scope.
func NewNodeBuilder(scope *Scope) *NodeBuilder {
	return &NodeBuilder{scope: scope}
}

// Nodes returns everything written so far, in order.
func (b *NodeBuilder) Nodes() []Node { return b.nodes }

func (b *NodeBuilder) Scope() *Scope { return b.scope }

func (b *NodeBuilder) WriteText(text string) error {
	b.nodes = append(b.nodes, Text(text))
	return nil
}

func (b *NodeBuilder) WriteCData(data string) error {
	b.nodes = append(b.nodes, CData(data))
	return nil
}

func (b *NodeBuilder) WriteComment(text string) error {
	b.nodes = append(b.nodes, Comment(text))
	return nil
}

func (b *NodeBuilder) WriteProcInst(target, data string) error {
	b.nodes = append(b.nodes, ProcInst{Target: target, Data: data})
	return nil
}

func (b *NodeBuilder) WriteElement(name ExpandedName) (ElementWriter, error) {
	el := NewElement(name)
	el.Scope = b.scope
	return &elementBuilder{parent: b, el: el}, nil
}

type elementBuilderState int

const (
	ebAttrs elementBuilderState = iota
	ebChildren
	ebDone
)

type elementBuilder struct {
	parent *NodeBuilder
	el     *Element
	sub    *NodeBuilder
	state  elementBuilderState
}

func (w *elementBuilder) SetPrefix(preferred string, enforce bool) error {
	if w.state != ebAttrs || len(w.el.Attrs) > 0 {
		return Issues{{Code: CodeCustom, Message: "prefix policy must be set before attributes"}}
	}
	w.el.PreferredPrefix = preferred
	w.el.EnforcePrefix = enforce
	return nil
}

func (w *elementBuilder) WriteAttr(name ExpandedName, value string) error {
	if w.state != ebAttrs {
		return Issues{{Code: CodeCustom, Message: "attribute written after element content started"}}
	}
	w.el.Attrs = append(w.el.Attrs, Attr{Name: name, Value: value})
	return nil
}

func (w *elementBuilder) Children() (Serializer, error) {
	if w.state != ebAttrs {
		return nil, Issues{{Code: CodeCustom, Message: "element content already started"}}
	}
	w.state = ebChildren
	w.sub = NewNodeBuilder(w.el.Scope)
	return w.sub, nil
}

func (w *elementBuilder) End() error {
	if w.state == ebDone {
		return Issues{{Code: CodeCustom, Message: "element already ended"}}
	}
	if w.sub != nil {
		w.el.Children = w.sub.nodes
	}
	w.state = ebDone
	w.parent.nodes = append(w.parent.nodes, w.el)
	return nil
}

// ToNodes serializes v into the node run it writes.
func ToNodes(v Marshaler) ([]Node, error) {
	b := NewNodeBuilder(nil)
	if err := v.MarshalXML(b); err != nil {
		return nil, err
	}
	return b.nodes, nil
}

// ToNode serializes v, which must write exactly one node.
func ToNode(v Marshaler) (Node, error) {
	nodes, err := ToNodes(v)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, Issues{{
			Code:    CodeCustom,
			Message: "expected exactly one node",
			Params:  map[string]any{"got": len(nodes)},
		}}
	}
	return nodes[0], nil
}
