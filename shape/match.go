package shape

import (
	flexml "github.com/flexml/flexml"
)

// Result is the outcome of a successful match: how many items each slot
// consumed and which items were tolerated as unknown content.
type Result struct {
	// Counts maps slot field names to the number of items assigned.
	Counts map[string]int
	// Unknown holds the items discarded under UnknownAny, in input order.
	Unknown []flexml.Node
}

// Match assigns the cursor's items to the declared slots under the given
// policy. On success the cursor rests at the first unconsumed item; on
// failure it is rolled back to exactly where it was at entry, so a failed
// attempt has no observable effect (the property variant trials and
// nested groups rely on).
func Match(cur *flexml.Cursor, slots []Slot, pol Policy) (*Result, error) {
	return match(cur, slots, pol, true)
}

func match(cur *flexml.Cursor, slots []Slot, pol Policy, terminal bool) (*Result, error) {
	if pol.Order == OrderStrict && pol.Unknown == UnknownAny {
		return nil, flexml.Issues{{
			Code:    flexml.CodeCustom,
			Message: "unknown mode \"any\" cannot be combined with strict order",
		}}
	}
	m := &matcher{cur: cur, slots: slots, pol: pol, terminal: terminal}
	entry := cur.Checkpoint()
	if err := m.run(); err != nil {
		cur.Rollback(entry)
		return nil, err
	}
	cur.Commit(entry)
	counts := make(map[string]int, len(slots))
	for _, s := range slots {
		counts[s.FieldName()] = m.counts[s]
	}
	return &Result{Counts: counts, Unknown: m.unknown}, nil
}

type matcher struct {
	cur      *flexml.Cursor
	slots    []Slot
	pol      Policy
	terminal bool
	unknown  []flexml.Node
	counts   map[Slot]int
}

func (m *matcher) run() error {
	m.counts = make(map[Slot]int, len(m.slots))
	if m.pol.Order == OrderNone {
		return m.runFree()
	}
	return m.runOrdered()
}

// elide consumes whitespace text and comment nodes the policy ignores.
func (m *matcher) elide() {
	for {
		head, ok := m.cur.Peek()
		if !ok {
			return
		}
		switch {
		case m.pol.Whitespace == WhitespaceIgnore && flexml.IsWhitespace(head):
		case m.pol.Comments == CommentIgnore && head.Kind() == flexml.KindComment:
		default:
			return
		}
		m.cur.Next()
	}
}

// runFree is the OrderNone loop: each head item is offered to every
// unfilled slot in declared order; the first taker wins. Items are thus
// consumed in document order while slots fill in any order.
func (m *matcher) runFree() error {
	for {
		m.elide()
		head, ok := m.cur.Peek()
		if !ok {
			break
		}
		taken := false
		duplicate := false
		var decodeErr error
		for _, s := range m.slots {
			if s.filled() {
				if s.accepts(head) {
					duplicate = true
				}
				continue
			}
			progressed, err := s.tryConsume(m.cur)
			if err != nil {
				// Trial semantics: a slot that looked right but failed to
				// decode does not claim the item. Keep the error in case no
				// other slot does either.
				if decodeErr == nil {
					decodeErr = err
				}
				continue
			}
			if progressed {
				m.counts[s]++
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		if decodeErr != nil && m.pol.Unknown == UnknownNone {
			return decodeErr
		}
		stop, err := m.handleUnknown(duplicate)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	for _, s := range m.slots {
		if !s.satisfied() {
			return missingField(s)
		}
	}
	return nil
}

// runOrdered walks slots left to right (OrderStrict and OrderLoose).
func (m *matcher) runOrdered() error {
	for i, s := range m.slots {
	scan:
		for !s.filled() {
			m.elide()
			head, ok := m.cur.Peek()
			if !ok {
				break
			}
			progressed, err := s.tryConsume(m.cur)
			if err != nil {
				return err
			}
			if progressed {
				m.counts[s]++
				continue
			}
			// Head is not this slot's.
			if m.pol.Order == OrderStrict {
				break
			}
			switch {
			case m.earlierRequiredUnfilled(i, head):
				return orderViolation(head)
			case m.laterAccepts(i, head):
				break scan // leave it for the slot it belongs to
			default:
				dup := m.earlierFilledAccepts(i, head)
				stop, err := m.handleUnknown(dup)
				if err != nil {
					return err
				}
				if stop {
					break scan
				}
			}
		}
		if !s.satisfied() {
			m.elide()
			if head, ok := m.cur.Peek(); ok && m.laterAccepts(i, head) {
				return orderViolation(head)
			}
			return missingField(s)
		}
	}
	return m.finishTrailing()
}

// handleUnknown applies the unknown-item policy to the current head.
// It reports whether matching should stop at this position.
func (m *matcher) handleUnknown(duplicate bool) (bool, error) {
	switch {
	case m.pol.Unknown == UnknownAny:
		n, _ := m.cur.Next()
		m.unknown = append(m.unknown, n)
		return false, nil
	case m.pol.Unknown == UnknownAtEnd || !m.terminal:
		// Tolerated only as trailing content: stop and leave the rest for
		// the enclosing matcher (or the caller, at the outermost level).
		// A group never judges items it does not recognize, whatever its
		// own unknown mode says.
		return true, nil
	default:
		head, _ := m.cur.Peek()
		code := flexml.CodeUnknownItem
		msg := "unexpected " + head.Kind().String()
		if duplicate {
			code = flexml.CodeDuplicateItem
			msg = "duplicate " + head.Kind().String() + " for an already-filled field"
		}
		if el, ok := head.(*flexml.Element); ok {
			msg += " " + el.Name.String()
		}
		return false, flexml.Issues{{Code: code, Message: msg}}
	}
}

// finishTrailing accounts for items left after the last slot in the
// ordered modes.
func (m *matcher) finishTrailing() error {
	for {
		m.elide()
		head, ok := m.cur.Peek()
		if !ok {
			return nil
		}
		switch m.pol.Unknown {
		case UnknownAny:
			n, _ := m.cur.Next()
			m.unknown = append(m.unknown, n)
		case UnknownAtEnd:
			return nil
		default:
			if !m.terminal {
				// Group-local matching never judges items it does not
				// recognize; they stay for the enclosing matcher.
				return nil
			}
			msg := "unexpected trailing " + head.Kind().String()
			if el, ok := head.(*flexml.Element); ok {
				msg += " " + el.Name.String()
			}
			return flexml.Issues{{Code: flexml.CodeUnknownItem, Message: msg}}
		}
	}
}

func (m *matcher) earlierRequiredUnfilled(i int, head flexml.Node) bool {
	for _, s := range m.slots[:i] {
		if !s.filled() && !s.satisfied() && s.required() && s.accepts(head) {
			return true
		}
	}
	return false
}

func (m *matcher) earlierFilledAccepts(i int, head flexml.Node) bool {
	for _, s := range m.slots[:i] {
		if s.filled() && s.accepts(head) {
			return true
		}
	}
	return false
}

func (m *matcher) laterAccepts(i int, head flexml.Node) bool {
	for _, s := range m.slots[i+1:] {
		if !s.filled() && s.accepts(head) {
			return true
		}
	}
	return false
}

func missingField(s Slot) error {
	return flexml.Issues{{
		Path:    "/" + s.FieldName(),
		Code:    flexml.CodeMissingField,
		Message: "required field not found in input",
	}}
}

func orderViolation(head flexml.Node) error {
	msg := "item out of declared order"
	if el, ok := head.(*flexml.Element); ok {
		msg += ": " + el.Name.String()
	}
	return flexml.Issues{{Code: flexml.CodeOrderViolation, Message: msg}}
}
