package rbtree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownColor is returned when a color name cannot be parsed.
var ErrUnknownColor = errors.New("unknown color")

// Color is the tag every node carries. The absent (null) leaf counts as Black.
type Color uint8

const (
	// Red marks a freshly linked node or one recolored by the fixup.
	Red Color = iota
	// Black marks a node that counts towards the black-height.
	Black
)

// String returns "Red" or "Black".
func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Black:
		return "Black"
	default:
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
}

// MarshalText encodes the color as "red" or "black".
func (c Color) MarshalText() ([]byte, error) {
	switch c {
	case Red, Black:
		return []byte(strings.ToLower(c.String())), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, c)
	}
}

// UnmarshalText decodes "red" or "black" (case-insensitive).
func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "red":
		*c = Red
	case "black":
		*c = Black
	default:
		return fmt.Errorf("%w: %q", ErrUnknownColor, text)
	}

	return nil
}
