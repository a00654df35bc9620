// Package study implements the navigation state of a study session: the
// position in a deck's card sequence and whether the answer is showing.
package study

// Side is the visible face of the current card.
type Side int

const (
	Question Side = iota
	Answer
)

func (s Side) String() string {
	if s == Answer {
		return "answer"
	}
	return "question"
}

// Cursor walks a sequence of n cards. Moves saturate at both ends, and a
// cursor over zero cards ignores every operation. The zero value is a
// cursor over zero cards.
type Cursor struct {
	n    int
	pos  int
	side Side
}

func NewCursor(n int) Cursor {
	var c Cursor
	c.Reset(n)
	return c
}

// Reset starts over at the first card, question side, for a sequence of n
// cards.
func (c *Cursor) Reset(n int) {
	if n < 0 {
		n = 0
	}
	c.n = n
	c.pos = 0
	c.side = Question
}

// Advance moves to the next card and reports whether the position changed.
// A card reached by a move shows its question.
func (c *Cursor) Advance() bool {
	if c.pos+1 >= c.n {
		return false
	}
	c.pos++
	c.side = Question
	return true
}

// Retreat moves to the previous card and reports whether the position
// changed.
func (c *Cursor) Retreat() bool {
	if c.pos == 0 {
		return false
	}
	c.pos--
	c.side = Question
	return true
}

// Flip toggles between question and answer without moving.
func (c *Cursor) Flip() {
	if c.n == 0 {
		return
	}
	if c.side == Question {
		c.side = Answer
	} else {
		c.side = Question
	}
}

func (c Cursor) Position() int { return c.pos }
func (c Cursor) Side() Side { return c.side }
func (c Cursor) Revealed() bool { return c.side == Answer }
func (c Cursor) Len() int { return c.n }
func (c Cursor) Empty() bool { return c.n == 0 }

// Current returns the position of the card on screen, or false when there
// are no cards.
func (c Cursor) Current() (int, bool) {
	if c.n == 0 {
		return 0, false
	}
	return c.pos, true
}
