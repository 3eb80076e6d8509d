// Package jsonx projects node trees to and from a kind-tagged JSON form,
// useful for fixtures, golden files, and handing XML structure to tools
// that only speak JSON. Namespace scopes are a parse-time concern and are
// not part of the projection; expanded names carry the identity.
package jsonx

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	flexml "github.com/flexml/flexml"
)

type nodeJSON struct {
	Kind     string     `json:"kind"`
	Name     *nameJSON  `json:"name,omitempty"`
	Prefix   string     `json:"prefix,omitempty"`
	Attrs    []attrJSON `json:"attrs,omitempty"`
	Children []nodeJSON `json:"children,omitempty"`
	Text     string     `json:"text,omitempty"`
	Target   string     `json:"target,omitempty"`
	Data     string     `json:"data,omitempty"`
}

type nameJSON struct {
	Local string `json:"local"`
	NS    string `json:"ns,omitempty"`
}

type attrJSON struct {
	Name  nameJSON `json:"name"`
	Value string   `json:"value"`
}

// Marshal renders a node tree as JSON.
func Marshal(n flexml.Node) ([]byte, error) {
	enc, err := encode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// MarshalIndent renders a node tree as indented JSON.
func MarshalIndent(n flexml.Node, prefix, indent string) ([]byte, error) {
	enc, err := encode(n)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(enc, prefix, indent)
}

// Unmarshal rebuilds a node tree from its JSON form.
func Unmarshal(data []byte) (flexml.Node, error) {
	var dec nodeJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return nil, errors.Wrap(err, "decoding node json")
	}
	return decode(dec)
}

func encode(n flexml.Node) (nodeJSON, error) {
	switch v := n.(type) {
	case *flexml.Element:
		out := nodeJSON{
			Kind:   "element",
			Name:   &nameJSON{Local: v.Name.Local, NS: v.Name.Namespace},
			Prefix: v.PreferredPrefix,
		}
		for _, a := range v.Attrs {
			out.Attrs = append(out.Attrs, attrJSON{
				Name:  nameJSON{Local: a.Name.Local, NS: a.Name.Namespace},
				Value: a.Value,
			})
		}
		for _, c := range v.Children {
			enc, err := encode(c)
			if err != nil {
				return nodeJSON{}, err
			}
			out.Children = append(out.Children, enc)
		}
		return out, nil
	case flexml.Text:
		return nodeJSON{Kind: "text", Text: string(v)}, nil
	case flexml.CData:
		return nodeJSON{Kind: "cdata", Text: string(v)}, nil
	case flexml.Comment:
		return nodeJSON{Kind: "comment", Text: string(v)}, nil
	case flexml.ProcInst:
		return nodeJSON{Kind: "pi", Target: v.Target, Data: v.Data}, nil
	default:
		return nodeJSON{}, errors.Errorf("node kind %s has no json form", n.Kind())
	}
}

func decode(in nodeJSON) (flexml.Node, error) {
	switch in.Kind {
	case "element":
		if in.Name == nil || in.Name.Local == "" {
			return nil, errors.New("element node needs a name")
		}
		el := flexml.NewElement(flexml.NameNS(in.Name.Local, in.Name.NS))
		el.PreferredPrefix = in.Prefix
		for _, a := range in.Attrs {
			el.Attrs = append(el.Attrs, flexml.Attr{
				Name:  flexml.NameNS(a.Name.Local, a.Name.NS),
				Value: a.Value,
			})
		}
		for _, c := range in.Children {
			dec, err := decode(c)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, dec)
		}
		return el, nil
	case "text":
		return flexml.Text(in.Text), nil
	case "cdata":
		return flexml.CData(in.Text), nil
	case "comment":
		return flexml.Comment(in.Text), nil
	case "pi":
		return flexml.ProcInst{Target: in.Target, Data: in.Data}, nil
	default:
		return nil, errors.Errorf("unknown node kind %q", in.Kind)
	}
}
