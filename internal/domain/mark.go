package domain

// Mark represents what a board cell holds.
type Mark uint8

const (
	Empty Mark = iota
	Human
	Computer
)

// Valid reports whether m is one of the three defined marks.
func (m Mark) Valid() bool {
	return m <= Computer
}

// Glyph is the display symbol every renderer uses for m.
func (m Mark) Glyph() string {
	switch m {
	case Human:
		return "X"
	case Computer:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark; Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case Human:
		return Computer
	case Computer:
		return Human
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case Empty:
		return "EMPTY"
	case Human:
		return "HUMAN"
	case Computer:
		return "COMPUTER"
	default:
		return "INVALID"
	}
}
