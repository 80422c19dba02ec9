package games

import (
	"fmt"
	"strconv"
	"strings"
)

// CardValue is a suitless card rank: 1 (ace) through 13 (king).
type CardValue int

const (
	MinCard CardValue = 1
	MaxCard CardValue = 13
)

// Valid reports whether v is a drawable card value.
func (v CardValue) Valid() bool {
	return v >= MinCard && v <= MaxCard
}

// String always renders the number; the table shows 1..13, never A/J/Q/K.
func (v CardValue) String() string {
	return strconv.Itoa(int(v))
}

// Direction is the player's call on the next card.
type Direction int

const (
	Higher Direction = iota + 1
	Lower
)

func (d Direction) String() string {
	switch d {
	case Higher:
		return "higher"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is Higher or Lower.
func (d Direction) Valid() bool {
	return d == Higher || d == Lower
}

// ParseDirection maps "higher"/"lower" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "higher":
		return Higher, nil
	case "lower":
		return Lower, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
