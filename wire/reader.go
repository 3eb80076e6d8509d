package wire

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"

	flexml "github.com/flexml/flexml"
)

// Parse reads an XML document and returns its root element as a node
// tree. Namespace scopes are rebuilt from the xmlns declarations in the
// input; the declarations themselves do not appear as attributes. The
// XML declaration and processing instructions are dropped.
func Parse(r io.Reader) (*flexml.Element, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, parseError(err)
	}
	root := firstElement(doc)
	if root == nil {
		return nil, flexml.Issues{{
			Code:    flexml.CodeParseError,
			Message: "document has no root element",
		}}
	}
	return convertElement(root, scopeForNode(root.Parent)), nil
}

// ParseString parses a document held in a string.
func ParseString(s string) (*flexml.Element, error) {
	return Parse(strings.NewReader(s))
}

func parseError(err error) error {
	return flexml.Issues{{
		Code:    flexml.CodeParseError,
		Message: err.Error(),
		Cause:   errors.Wrap(err, "parsing document"),
	}}
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// scopeForNode rebuilds the scope in force at n by folding the xmlns
// declarations on the ancestor chain, outermost first.
func scopeForNode(n *xmlquery.Node) *flexml.Scope {
	if n == nil {
		return nil
	}
	scope := scopeForNode(n.Parent)
	if n.Type == xmlquery.ElementNode {
		scope = foldDeclarations(scope, n)
	}
	return scope
}

func foldDeclarations(scope *flexml.Scope, n *xmlquery.Node) *flexml.Scope {
	for _, a := range n.Attr {
		switch {
		case a.Name.Space == "xmlns":
			scope = scope.Bind(a.Name.Local, a.Value)
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope = scope.Bind("", a.Value)
		}
	}
	return scope
}

func convertElement(n *xmlquery.Node, parent *flexml.Scope) *flexml.Element {
	scope := foldDeclarations(parent, n)
	el := flexml.NewElement(flexml.NameNS(n.Data, n.NamespaceURI))
	el.Scope = scope
	el.PreferredPrefix = n.Prefix
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		el.Attrs = append(el.Attrs, flexml.Attr{
			Name:  flexml.NameNS(a.Name.Local, a.NamespaceURI),
			Value: a.Value,
		})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			el.Children = append(el.Children, convertElement(c, scope))
		case xmlquery.TextNode:
			el.Children = append(el.Children, flexml.Text(c.Data))
		case xmlquery.CharDataNode:
			el.Children = append(el.Children, flexml.CData(c.Data))
		case xmlquery.CommentNode:
			el.Children = append(el.Children, flexml.Comment(c.Data))
		}
	}
	return el
}
