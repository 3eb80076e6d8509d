package shape

import (
	flexml "github.com/flexml/flexml"
)

// Unbounded marks a sequence cardinality with no upper limit.
const Unbounded = -1

// Cardinality bounds how many items a slot may and must consume.
type Cardinality struct {
	Min int
	Max int // Unbounded for no cap
}

// Required is the exactly-one cardinality.
func Required() Cardinality { return Cardinality{Min: 1, Max: 1} }

// Optional is the zero-or-one cardinality.
func Optional() Cardinality { return Cardinality{Min: 0, Max: 1} }

// Sequence is a bounded repetition; max may be Unbounded.
func Sequence(min, max int) Cardinality { return Cardinality{Min: min, Max: max} }

func (c Cardinality) allowsMore(n int) bool { return c.Max == Unbounded || n < c.Max }
func (c Cardinality) reached(n int) bool    { return n >= c.Min }

// Slot is a declared expectation consumed by the matcher. Slots are built
// with Field and Group and are single-use: one slot list serves one Match
// call.
type Slot interface {
	// FieldName names the slot in paths and failure messages.
	FieldName() string

	accepts(n flexml.Node) bool
	// tryConsume attempts to consume input for this slot at the cursor
	// head, reporting whether it made progress. A false result with a
	// non-nil error means the head looked like this slot's but failed to
	// decode; the cursor is left untouched in that case.
	tryConsume(cur *flexml.Cursor) (bool, error)
	// filled reports the slot cannot take more items.
	filled() bool
	// satisfied reports the slot's minimum cardinality is met.
	satisfied() bool
	// required reports the slot must consume at least one item.
	required() bool
}

type fieldSlot struct {
	name   string
	card   Cardinality
	match  func(flexml.Node) bool
	decode func(flexml.Node) error
	count  int
}

// Field declares a leaf slot: match decides whether the next item belongs
// to it, decode receives each consumed node. Decode failures surface under
// the slot's field path.
func Field(name string, card Cardinality, match func(flexml.Node) bool, decode func(flexml.Node) error) Slot {
	return &fieldSlot{name: name, card: card, match: match, decode: decode}
}

func (s *fieldSlot) FieldName() string { return s.name }

func (s *fieldSlot) accepts(n flexml.Node) bool { return s.match(n) }

func (s *fieldSlot) tryConsume(cur *flexml.Cursor) (bool, error) {
	if !s.card.allowsMore(s.count) {
		return false, nil
	}
	head, ok := cur.Peek()
	if !ok || !s.match(head) {
		return false, nil
	}
	ck := cur.Checkpoint()
	n, _ := cur.Next()
	if err := s.decode(n); err != nil {
		cur.Rollback(ck)
		return false, flexml.RebaseIssues("/"+s.name, flexml.IssuesOf("", err))
	}
	cur.Commit(ck)
	s.count++
	return true, nil
}

func (s *fieldSlot) filled() bool    { return !s.card.allowsMore(s.count) }
func (s *fieldSlot) satisfied() bool { return s.card.reached(s.count) }
func (s *fieldSlot) required() bool  { return s.card.Min > 0 }

type groupSlot struct {
	name   string
	slots  []Slot
	policy Policy
	done   bool
}

// Group declares a slot whose consumption delegates to a nested matcher
// with its own policy, run over the same cursor. The group leaves the
// cursor at the first item it does not consume; its boundaries are
// transparent to the enclosing matcher's order bookkeeping, and items the
// group does not recognize are never accounted against the group (they
// stay for the enclosing matcher to judge).
func Group(name string, pol Policy, slots ...Slot) Slot {
	return &groupSlot{name: name, slots: slots, policy: pol}
}

func (g *groupSlot) FieldName() string { return g.name }

func (g *groupSlot) accepts(n flexml.Node) bool {
	for _, s := range g.slots {
		if !s.filled() && s.accepts(n) {
			return true
		}
	}
	return false
}

func (g *groupSlot) tryConsume(cur *flexml.Cursor) (bool, error) {
	if g.done {
		return false, nil
	}
	head, ok := cur.Peek()
	if !ok || !g.accepts(head) {
		return false, nil
	}
	before := cur.Len()
	if _, err := match(cur, g.slots, g.policy, false); err != nil {
		return false, flexml.RebaseIssues("/"+g.name, flexml.IssuesOf("", err))
	}
	g.done = true
	return cur.Len() < before, nil
}

func (g *groupSlot) filled() bool { return g.done }

func (g *groupSlot) satisfied() bool {
	if g.done {
		return true
	}
	for _, s := range g.slots {
		if !s.satisfied() {
			return false
		}
	}
	return true
}

func (g *groupSlot) required() bool {
	for _, s := range g.slots {
		if s.required() {
			return true
		}
	}
	return false
}

// ElementNamed matches element nodes with the given expanded name.
func ElementNamed(name flexml.ExpandedName) func(flexml.Node) bool {
	return func(n flexml.Node) bool {
		el, ok := n.(*flexml.Element)
		return ok && el.Name == name
	}
}

// AttrNamed matches attribute nodes with the given expanded name.
func AttrNamed(name flexml.ExpandedName) func(flexml.Node) bool {
	return func(n flexml.Node) bool {
		a, ok := n.(flexml.Attr)
		return ok && a.Name == name
	}
}

// AnyElement matches any element node.
func AnyElement(n flexml.Node) bool {
	_, ok := n.(*flexml.Element)
	return ok
}

// CharData matches text and CDATA nodes.
func CharData(n flexml.Node) bool {
	switch n.(type) {
	case flexml.Text, flexml.CData:
		return true
	default:
		return false
	}
}
