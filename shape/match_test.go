package shape

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	flexml "github.com/flexml/flexml"
)

func el(local, text string) *flexml.Element {
	e := flexml.NewElement(flexml.Name(local))
	if text != "" {
		e.Children = append(e.Children, flexml.Text(text))
	}
	return e
}

func textOf(t *testing.T, n flexml.Node) string {
	t.Helper()
	e, ok := n.(*flexml.Element)
	if !ok || len(e.Children) != 1 {
		t.Fatalf("expected single-text element, got %#v", n)
	}
	return string(e.Children[0].(flexml.Text))
}

func requireCode(t *testing.T, err error, code string) flexml.Issues {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	iss, ok := flexml.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T: %v", err, err)
	}
	if len(iss) == 0 || iss[0].Code != code {
		t.Fatalf("expected first issue code %q, got %v", code, iss)
	}
	return iss
}

func TestMatchUnorderedFillsOutOfOrder(t *testing.T) {
	var name string
	var age int
	slots := []Slot{
		Field("name", Required(), ElementNamed(flexml.Name("name")), func(n flexml.Node) error {
			name = textOf(t, n)
			return nil
		}),
		Field("age", Required(), ElementNamed(flexml.Name("age")), func(n flexml.Node) error {
			v, err := strconv.Atoi(textOf(t, n))
			age = v
			return err
		}),
	}
	cur := flexml.NewCursor([]flexml.Node{el("age", "42"), el("name", "John")})

	res, err := Match(cur, slots, Policy{})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if name != "John" || age != 42 {
		t.Fatalf("decoded name=%q age=%d", name, age)
	}
	want := map[string]int{"name": 1, "age": 1}
	if diff := cmp.Diff(want, res.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if cur.Len() != 0 {
		t.Fatalf("cursor should be drained, %d left", cur.Len())
	}
}

func TestMatchMissingRequiredField(t *testing.T) {
	slots := []Slot{
		Field("name", Required(), ElementNamed(flexml.Name("name")), func(flexml.Node) error { return nil }),
		Field("age", Required(), ElementNamed(flexml.Name("age")), func(flexml.Node) error { return nil }),
	}
	cur := flexml.NewCursor([]flexml.Node{el("name", "John")})

	_, err := Match(cur, slots, Policy{})
	iss := requireCode(t, err, flexml.CodeMissingField)
	if iss[0].Path != "/age" {
		t.Fatalf("expected path /age, got %q", iss[0].Path)
	}
}

func TestMatchOptionalFieldMayBeAbsent(t *testing.T) {
	slots := []Slot{
		Field("name", Required(), ElementNamed(flexml.Name("name")), func(flexml.Node) error { return nil }),
		Field("nick", Optional(), ElementNamed(flexml.Name("nick")), func(flexml.Node) error { return nil }),
	}
	cur := flexml.NewCursor([]flexml.Node{el("name", "John")})

	res, err := Match(cur, slots, Policy{})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Counts["nick"] != 0 {
		t.Fatalf("nick should be unfilled, got %d", res.Counts["nick"])
	}
}

func TestMatchEmptyInputAllOptional(t *testing.T) {
	slots := []Slot{
		Field("a", Optional(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
		Field("b", Sequence(0, Unbounded), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
	}
	if _, err := Match(flexml.NewCursor(nil), slots, Policy{}); err != nil {
		t.Fatalf("Match on empty input: %v", err)
	}
}

func TestMatchUnknownPolicies(t *testing.T) {
	newSlots := func() []Slot {
		return []Slot{
			Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
			Field("b", Required(), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
		}
	}
	input := func() []flexml.Node {
		return []flexml.Node{el("a", ""), el("x", ""), el("b", "")}
	}

	t.Run("none rejects", func(t *testing.T) {
		_, err := Match(flexml.NewCursor(input()), newSlots(), Policy{Unknown: UnknownNone})
		requireCode(t, err, flexml.CodeUnknownItem)
	})

	t.Run("any collects", func(t *testing.T) {
		res, err := Match(flexml.NewCursor(input()), newSlots(), Policy{Unknown: UnknownAny})
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if len(res.Unknown) != 1 || !flexml.Equal(res.Unknown[0], el("x", "")) {
			t.Fatalf("unknowns = %#v", res.Unknown)
		}
	})

	t.Run("at_end rejects interior", func(t *testing.T) {
		// The unknown sits between matched items, so matching stops there
		// and b goes unsatisfied.
		_, err := Match(flexml.NewCursor(input()), newSlots(), Policy{Unknown: UnknownAtEnd})
		requireCode(t, err, flexml.CodeMissingField)
	})

	t.Run("at_end leaves trailing", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("a", ""), el("b", ""), el("x", "")})
		if _, err := Match(cur, newSlots(), Policy{Unknown: UnknownAtEnd}); err != nil {
			t.Fatalf("Match: %v", err)
		}
		if cur.Len() != 1 {
			t.Fatalf("trailing unknown should stay on cursor, %d left", cur.Len())
		}
	})

	t.Run("leading unknown under at_end", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("x", ""), el("a", ""), el("b", "")})
		_, err := Match(cur, newSlots(), Policy{Unknown: UnknownAtEnd})
		requireCode(t, err, flexml.CodeMissingField)
	})
}

func TestMatchDuplicateItem(t *testing.T) {
	slots := []Slot{
		Field("name", Required(), ElementNamed(flexml.Name("name")), func(flexml.Node) error { return nil }),
	}
	cur := flexml.NewCursor([]flexml.Node{el("name", "a"), el("name", "b")})

	_, err := Match(cur, slots, Policy{Unknown: UnknownNone})
	requireCode(t, err, flexml.CodeDuplicateItem)
}

func TestMatchSequenceCardinality(t *testing.T) {
	var got []string
	slots := []Slot{
		Field("item", Sequence(1, 2), ElementNamed(flexml.Name("item")), func(n flexml.Node) error {
			got = append(got, textOf(t, n))
			return nil
		}),
	}

	t.Run("within bounds", func(t *testing.T) {
		got = nil
		cur := flexml.NewCursor([]flexml.Node{el("item", "1"), el("item", "2")})
		res, err := Match(cur, slots, Policy{})
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if res.Counts["item"] != 2 {
			t.Fatalf("count = %d", res.Counts["item"])
		}
		if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
			t.Fatalf("items (-want +got):\n%s", diff)
		}
	})

	t.Run("over max is duplicate", func(t *testing.T) {
		got = nil
		slots := []Slot{
			Field("item", Sequence(1, 2), ElementNamed(flexml.Name("item")), func(flexml.Node) error { return nil }),
		}
		cur := flexml.NewCursor([]flexml.Node{el("item", "1"), el("item", "2"), el("item", "3")})
		_, err := Match(cur, slots, Policy{})
		requireCode(t, err, flexml.CodeDuplicateItem)
	})

	t.Run("under min is missing", func(t *testing.T) {
		slots := []Slot{
			Field("item", Sequence(2, Unbounded), ElementNamed(flexml.Name("item")), func(flexml.Node) error { return nil }),
		}
		cur := flexml.NewCursor([]flexml.Node{el("item", "1")})
		_, err := Match(cur, slots, Policy{})
		requireCode(t, err, flexml.CodeMissingField)
	})
}

func TestMatchStrictOrder(t *testing.T) {
	newSlots := func() []Slot {
		return []Slot{
			Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
			Field("b", Required(), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
		}
	}

	t.Run("in order", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("a", ""), el("b", "")})
		if _, err := Match(cur, newSlots(), Policy{Order: OrderStrict}); err != nil {
			t.Fatalf("Match: %v", err)
		}
	})

	t.Run("swapped is order violation", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("b", ""), el("a", "")})
		_, err := Match(cur, newSlots(), Policy{Order: OrderStrict})
		requireCode(t, err, flexml.CodeOrderViolation)
	})

	t.Run("foreign head is missing field", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("x", ""), el("a", ""), el("b", "")})
		_, err := Match(cur, newSlots(), Policy{Order: OrderStrict})
		requireCode(t, err, flexml.CodeMissingField)
	})

	t.Run("any unknowns rejected as config", func(t *testing.T) {
		cur := flexml.NewCursor(nil)
		if _, err := Match(cur, newSlots(), Policy{Order: OrderStrict, Unknown: UnknownAny}); err == nil {
			t.Fatal("expected configuration error")
		}
	})
}

func TestMatchLooseOrder(t *testing.T) {
	newSlots := func() []Slot {
		return []Slot{
			Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
			Field("b", Required(), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
		}
	}

	t.Run("foreign items between slots tolerated under any", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("x", ""), el("a", ""), el("y", ""), el("b", "")})
		res, err := Match(cur, newSlots(), Policy{Order: OrderLoose, Unknown: UnknownAny})
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if len(res.Unknown) != 2 {
			t.Fatalf("unknowns = %#v", res.Unknown)
		}
	})

	t.Run("swapped is order violation", func(t *testing.T) {
		cur := flexml.NewCursor([]flexml.Node{el("b", ""), el("a", "")})
		_, err := Match(cur, newSlots(), Policy{Order: OrderLoose})
		requireCode(t, err, flexml.CodeOrderViolation)
	})
}

func TestMatchDecodeFailureSurfacesUnderFieldPath(t *testing.T) {
	slots := []Slot{
		Field("age", Required(), ElementNamed(flexml.Name("age")), func(n flexml.Node) error {
			_, err := strconv.Atoi(textOf(t, n))
			return err
		}),
	}
	cur := flexml.NewCursor([]flexml.Node{el("age", "not-a-number")})

	_, err := Match(cur, slots, Policy{})
	if err == nil {
		t.Fatal("expected decode failure")
	}
	iss, _ := flexml.AsIssues(err)
	if len(iss) == 0 || iss[0].Path != "/age" {
		t.Fatalf("expected failure under /age, got %v", iss)
	}
	if cur.Len() != 1 {
		t.Fatalf("failed match must not consume, %d left", cur.Len())
	}
}

func TestMatchRollsBackOnFailure(t *testing.T) {
	slots := []Slot{
		Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
		Field("b", Required(), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
	}
	cur := flexml.NewCursor([]flexml.Node{el("a", ""), el("x", "")})

	if _, err := Match(cur, slots, Policy{Unknown: UnknownNone}); err == nil {
		t.Fatal("expected failure")
	}
	if cur.Len() != 2 {
		t.Fatalf("cursor must be restored after failure, %d left", cur.Len())
	}

	// The untouched cursor supports an independent successful match.
	relaxed := []Slot{
		Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
	}
	res, err := Match(cur, relaxed, Policy{Unknown: UnknownAny})
	if err != nil {
		t.Fatalf("follow-up match: %v", err)
	}
	if res.Counts["a"] != 1 || len(res.Unknown) != 1 {
		t.Fatalf("follow-up result = %+v", res)
	}
}

func TestMatchWhitespaceAndComments(t *testing.T) {
	input := func() []flexml.Node {
		return []flexml.Node{
			flexml.Text("\n  "),
			el("a", ""),
			flexml.Comment(" interlude "),
			flexml.Text("\n  "),
			el("b", ""),
			flexml.Text("\n"),
		}
	}
	newSlots := func() []Slot {
		return []Slot{
			Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
			Field("b", Required(), ElementNamed(flexml.Name("b")), func(flexml.Node) error { return nil }),
		}
	}

	t.Run("elided by default", func(t *testing.T) {
		if _, err := Match(flexml.NewCursor(input()), newSlots(), Policy{}); err != nil {
			t.Fatalf("Match: %v", err)
		}
	})

	t.Run("kept whitespace is unknown", func(t *testing.T) {
		pol := Policy{Whitespace: WhitespaceKeep}
		_, err := Match(flexml.NewCursor(input()), newSlots(), pol)
		requireCode(t, err, flexml.CodeUnknownItem)
	})

	t.Run("kept comment is unknown", func(t *testing.T) {
		pol := Policy{Comments: CommentKeep}
		_, err := Match(flexml.NewCursor(input()), newSlots(), pol)
		requireCode(t, err, flexml.CodeUnknownItem)
	})
}

func TestMatchGroupConsumesContiguousRun(t *testing.T) {
	var street, city, name string
	slots := []Slot{
		Field("name", Required(), ElementNamed(flexml.Name("name")), func(n flexml.Node) error {
			name = textOf(t, n)
			return nil
		}),
		Group("address", Policy{Order: OrderStrict},
			Field("street", Required(), ElementNamed(flexml.Name("street")), func(n flexml.Node) error {
				street = textOf(t, n)
				return nil
			}),
			Field("city", Required(), ElementNamed(flexml.Name("city")), func(n flexml.Node) error {
				city = textOf(t, n)
				return nil
			}),
		),
	}
	cur := flexml.NewCursor([]flexml.Node{
		el("street", "Main St"),
		el("city", "Springfield"),
		el("name", "John"),
	})

	if _, err := Match(cur, slots, Policy{}); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if street != "Main St" || city != "Springfield" || name != "John" {
		t.Fatalf("decoded street=%q city=%q name=%q", street, city, name)
	}
}

func TestMatchGroupInnerFailurePropagates(t *testing.T) {
	slots := []Slot{
		Group("address", Policy{Order: OrderStrict},
			Field("street", Required(), ElementNamed(flexml.Name("street")), func(flexml.Node) error { return nil }),
			Field("city", Required(), ElementNamed(flexml.Name("city")), func(flexml.Node) error { return nil }),
		),
	}
	cur := flexml.NewCursor([]flexml.Node{el("street", "Main St")})

	_, err := Match(cur, slots, Policy{})
	if err == nil {
		t.Fatal("expected failure")
	}
	iss, _ := flexml.AsIssues(err)
	if len(iss) == 0 || iss[0].Path != "/address/city" {
		t.Fatalf("expected failure under /address/city, got %v", iss)
	}
	if cur.Len() != 1 {
		t.Fatalf("cursor must be restored, %d left", cur.Len())
	}
}

func TestMatchGroupLeavesForeignItems(t *testing.T) {
	// The group tolerates trailing content it does not recognize; the
	// enclosing matcher judges it instead.
	slots := []Slot{
		Group("pair", Policy{},
			Field("a", Required(), ElementNamed(flexml.Name("a")), func(flexml.Node) error { return nil }),
		),
		Field("tail", Required(), ElementNamed(flexml.Name("tail")), func(flexml.Node) error { return nil }),
	}
	cur := flexml.NewCursor([]flexml.Node{el("a", ""), el("tail", "")})

	if _, err := Match(cur, slots, Policy{}); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if cur.Len() != 0 {
		t.Fatalf("cursor should be drained, %d left", cur.Len())
	}
}
