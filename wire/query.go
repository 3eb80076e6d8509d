package wire

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	flexml "github.com/flexml/flexml"
)

// Document is a parsed XML document kept in its queryable form. It hands
// out node-model subtrees on demand, so callers can locate the element
// they care about by XPath and deserialize just that.
type Document struct {
	root *xmlquery.Node
}

// ParseDocument reads and retains a whole document for querying.
func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, parseError(err)
	}
	return &Document{root: doc}, nil
}

// ParseDocumentString parses a document held in a string.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocument(strings.NewReader(s))
}

// Root returns the document's root element as a node tree.
func (d *Document) Root() (*flexml.Element, error) {
	root := firstElement(d.root)
	if root == nil {
		return nil, flexml.Issues{{
			Code:    flexml.CodeParseError,
			Message: "document has no root element",
		}}
	}
	return convertElement(root, nil), nil
}

// Select returns the first element matching the XPath expression, or nil
// when nothing matches.
func (d *Document) Select(expr string) (*flexml.Element, error) {
	sel, err := compile(expr)
	if err != nil {
		return nil, err
	}
	n := xmlquery.QuerySelector(d.root, sel)
	if n == nil {
		return nil, nil
	}
	if n.Type != xmlquery.ElementNode {
		return nil, errors.Errorf("xpath %q selected a non-element node", expr)
	}
	return convertElement(n, scopeForNode(n.Parent)), nil
}

// SelectAll returns every element matching the XPath expression, in
// document order.
func (d *Document) SelectAll(expr string) ([]*flexml.Element, error) {
	sel, err := compile(expr)
	if err != nil {
		return nil, err
	}
	var out []*flexml.Element
	for _, n := range xmlquery.QuerySelectorAll(d.root, sel) {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		out = append(out, convertElement(n, scopeForNode(n.Parent)))
	}
	return out, nil
}

// Text returns the inner text of the first match, or "" when nothing
// matches.
func (d *Document) Text(expr string) (string, error) {
	sel, err := compile(expr)
	if err != nil {
		return "", err
	}
	n := xmlquery.QuerySelector(d.root, sel)
	if n == nil {
		return "", nil
	}
	return n.InnerText(), nil
}

func compile(expr string) (*xpath.Expr, error) {
	sel, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling xpath %q", expr)
	}
	return sel, nil
}
