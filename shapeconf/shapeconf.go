// Package shapeconf loads slot declarations from YAML descriptors, so an
// element's expected shape can live in configuration instead of code.
// A descriptor names the element, picks a matching policy, and lists the
// fields; binding it to per-field decode functions yields the slot list
// the matcher runs over.
package shapeconf

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	flexml "github.com/flexml/flexml"
	"github.com/flexml/flexml/shape"
)

// Field kinds accepted in descriptors.
const (
	KindElement    = "element"
	KindAttribute  = "attribute"
	KindCharData   = "chardata"
	KindAnyElement = "any_element"
)

// Spec is one element shape descriptor.
type Spec struct {
	Element NameSpec    `yaml:"element"`
	Policy  PolicySpec  `yaml:"policy"`
	Fields  []FieldSpec `yaml:"fields"`
}

// NameSpec is a namespace-qualified name in descriptor form.
type NameSpec struct {
	Local string `yaml:"local"`
	NS    string `yaml:"ns"`
}

// Name converts to the node model's expanded name.
func (n NameSpec) Name() flexml.ExpandedName {
	return flexml.NameNS(n.Local, n.NS)
}

// PolicySpec spells a matching policy with the same words the policy
// types print: order none/loose/strict, unknown none/at_end/any,
// whitespace and comments ignore/keep. Empty strings take the defaults.
type PolicySpec struct {
	Order      string `yaml:"order"`
	Unknown    string `yaml:"unknown"`
	Whitespace string `yaml:"whitespace"`
	Comments   string `yaml:"comments"`
}

// Policy parses the descriptor spellings into a matcher policy.
func (p PolicySpec) Policy() (shape.Policy, error) {
	var pol shape.Policy
	switch p.Order {
	case "", "none":
	case "loose":
		pol.Order = shape.OrderLoose
	case "strict":
		pol.Order = shape.OrderStrict
	default:
		return pol, errors.Errorf("unknown order mode %q", p.Order)
	}
	switch p.Unknown {
	case "", "none":
	case "at_end":
		pol.Unknown = shape.UnknownAtEnd
	case "any":
		pol.Unknown = shape.UnknownAny
	default:
		return pol, errors.Errorf("unknown unknown-item mode %q", p.Unknown)
	}
	switch p.Whitespace {
	case "", "ignore":
	case "keep":
		pol.Whitespace = shape.WhitespaceKeep
	default:
		return pol, errors.Errorf("unknown whitespace mode %q", p.Whitespace)
	}
	switch p.Comments {
	case "", "ignore":
	case "keep":
		pol.Comments = shape.CommentKeep
	default:
		return pol, errors.Errorf("unknown comment mode %q", p.Comments)
	}
	return pol, nil
}

// FieldSpec declares one slot. Min and Max default to exactly-one when
// omitted; Max -1 means unbounded.
type FieldSpec struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Local string `yaml:"local"`
	NS    string `yaml:"ns"`
	Min   *int   `yaml:"min"`
	Max   *int   `yaml:"max"`
}

func (f FieldSpec) cardinality() (shape.Cardinality, error) {
	card := shape.Required()
	if f.Min != nil {
		card.Min = *f.Min
	}
	if f.Max != nil {
		card.Max = *f.Max
	}
	if card.Min < 0 {
		return card, errors.Errorf("field %q: min %d is negative", f.Name, card.Min)
	}
	if card.Max != shape.Unbounded && card.Max < card.Min {
		return card, errors.Errorf("field %q: max %d below min %d", f.Name, card.Max, card.Min)
	}
	return card, nil
}

func (f FieldSpec) predicate() (func(flexml.Node) bool, error) {
	switch f.Kind {
	case KindElement:
		if f.Local == "" {
			return nil, errors.Errorf("field %q: element kind needs a local name", f.Name)
		}
		return shape.ElementNamed(flexml.NameNS(f.Local, f.NS)), nil
	case KindAttribute:
		if f.Local == "" {
			return nil, errors.Errorf("field %q: attribute kind needs a local name", f.Name)
		}
		return shape.AttrNamed(flexml.NameNS(f.Local, f.NS)), nil
	case KindCharData:
		return shape.CharData, nil
	case KindAnyElement:
		return shape.AnyElement, nil
	default:
		return nil, errors.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
	}
}

// Load reads one descriptor. Unknown keys are rejected, so typos in a
// descriptor fail loudly instead of silently relaxing the shape.
func Load(r io.Reader) (*Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Spec
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding shape descriptor")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadString parses a descriptor held in a string.
func LoadString(s string) (*Spec, error) {
	return Load(strings.NewReader(s))
}

func (s *Spec) validate() error {
	if s.Element.Local == "" {
		return errors.New("descriptor needs an element local name")
	}
	if err := flexml.CheckName(s.Element.Local); err != nil {
		return errors.Wrapf(err, "element name %q", s.Element.Local)
	}
	if _, err := s.Policy.Policy(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.New("every field needs a name")
		}
		if seen[f.Name] {
			return errors.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if _, err := f.predicate(); err != nil {
			return err
		}
		if _, err := f.cardinality(); err != nil {
			return err
		}
	}
	return nil
}

// Bind pairs the descriptor's fields with decode functions and returns
// the slot list for one Match call. Every field must have a decoder and
// every decoder a field.
func (s *Spec) Bind(decoders map[string]func(flexml.Node) error) ([]shape.Slot, error) {
	slots := make([]shape.Slot, 0, len(s.Fields))
	for _, f := range s.Fields {
		decode, ok := decoders[f.Name]
		if !ok {
			return nil, errors.Errorf("no decoder bound for field %q", f.Name)
		}
		pred, err := f.predicate()
		if err != nil {
			return nil, err
		}
		card, err := f.cardinality()
		if err != nil {
			return nil, err
		}
		slots = append(slots, shape.Field(f.Name, card, pred, decode))
	}
	for name := range decoders {
		if !fieldNamed(s.Fields, name) {
			return nil, errors.Errorf("decoder %q matches no field", name)
		}
	}
	return slots, nil
}

func fieldNamed(fields []FieldSpec, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Unmarshal runs the whole pipeline for one element: name check, policy
// parse, slot binding, and a match over the element's children.
func (s *Spec) Unmarshal(d flexml.Deserializer, decoders map[string]func(flexml.Node) error) (*shape.Result, error) {
	if err := flexml.ExpectName(d, s.Element.Name()); err != nil {
		return nil, err
	}
	pol, err := s.Policy.Policy()
	if err != nil {
		return nil, err
	}
	slots, err := s.Bind(decoders)
	if err != nil {
		return nil, err
	}
	return shape.Match(d.Children(), slots, pol)
}
