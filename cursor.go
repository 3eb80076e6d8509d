package flexml

import "fmt"

// Cursor is a peekable, rollback-capable view over one ordered run of
// sibling items: either the attributes of an element or its children,
// never mixed. Consuming advances monotonically unless rolled back to a
// saved checkpoint. The nodes themselves are never mutated, so re-reading
// after a rollback yields identical values; that is what makes nested
// trial-and-error attempts side-effect free.
type Cursor struct {
	items []Node
	pos   int
	marks []int
}

// NewCursor returns a cursor over items. The cursor borrows the slice;
// callers must not mutate it while the cursor is live.
func NewCursor(items []Node) *Cursor {
	return &Cursor{items: items}
}

// Peek returns the next item without consuming it.
func (c *Cursor) Peek() (Node, bool) {
	if c.pos >= len(c.items) {
		return nil, false
	}
	return c.items[c.pos], true
}

// Next consumes and returns the next item.
func (c *Cursor) Next() (Node, bool) {
	if c.pos >= len(c.items) {
		return nil, false
	}
	n := c.items[c.pos]
	c.pos++
	return n, true
}

// Len reports how many items remain from the current position.
func (c *Cursor) Len() int { return len(c.items) - c.pos }

// Mark identifies a saved cursor position. Marks must be released (via
// Rollback or Commit) in reverse order of acquisition.
type Mark struct {
	depth int
	pos   int
}

// Checkpoint saves the current position.
func (c *Cursor) Checkpoint() Mark {
	c.marks = append(c.marks, c.pos)
	return Mark{depth: len(c.marks), pos: c.pos}
}

// Rollback restores the position saved by m and releases the mark.
// Releasing marks out of stack order is a programming error and panics;
// there is no concurrent access to race against, only misuse.
func (c *Cursor) Rollback(m Mark) {
	c.release(m)
	c.pos = m.pos
}

// Commit releases the mark without restoring the position, keeping
// everything consumed since the checkpoint.
func (c *Cursor) Commit(m Mark) {
	c.release(m)
}

func (c *Cursor) release(m Mark) {
	if len(c.marks) != m.depth || c.marks[m.depth-1] != m.pos {
		panic(fmt.Sprintf("flexml: cursor mark released out of order (depth %d, have %d)", m.depth, len(c.marks)))
	}
	c.marks = c.marks[:m.depth-1]
}
