package shape

// OrderMode controls how strictly input items must follow declared slot
// order.
type OrderMode int

const (
	// OrderNone matches items against slots regardless of input order.
	OrderNone OrderMode = iota
	// OrderLoose requires declared slots to match in relative order but
	// lets foreign items separate them.
	OrderLoose
	// OrderStrict requires each item to satisfy the current slot with no
	// skipping at all.
	OrderStrict
)

func (m OrderMode) String() string {
	switch m {
	case OrderNone:
		return "none"
	case OrderLoose:
		return "loose"
	case OrderStrict:
		return "strict"
	default:
		return "order(?)"
	}
}

// UnknownMode controls how items matching no slot are handled.
type UnknownMode int

const (
	// UnknownNone rejects any item that matches no slot.
	UnknownNone UnknownMode = iota
	// UnknownAtEnd tolerates unknown items only after every slot has had
	// its chance; they are left on the cursor for an enclosing matcher.
	UnknownAtEnd
	// UnknownAny tolerates unknown items anywhere, discarding them.
	UnknownAny
)

func (m UnknownMode) String() string {
	switch m {
	case UnknownNone:
		return "none"
	case UnknownAtEnd:
		return "at_end"
	case UnknownAny:
		return "any"
	default:
		return "unknown(?)"
	}
}

// WhitespaceMode controls elision of all-whitespace text nodes.
type WhitespaceMode int

const (
	WhitespaceIgnore WhitespaceMode = iota
	WhitespaceKeep
)

// CommentMode controls elision of comment nodes.
type CommentMode int

const (
	CommentIgnore CommentMode = iota
	CommentKeep
)

// Policy is the rule set governing one matcher invocation (an element
// root or a group). The zero value is the strict-ish default: unordered
// matching, no unknown items, whitespace and comments elided.
type Policy struct {
	Order      OrderMode
	Unknown    UnknownMode
	Whitespace WhitespaceMode
	Comments   CommentMode
}
