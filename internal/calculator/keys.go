package calculator

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKey = errors.New("unknown calculator key")

// Key labels of the control buttons. Digits and operators use their symbol.
const (
	KeyClear     = "C"
	KeyBackspace = "⌫"
	KeyDecimal   = "."
	KeyEquals    = "="
	KeyPercent   = "10%"
	KeyMarkup    = "+10%"
)

// Keys lists the button labels in panel order.
var Keys = []string{
	KeyClear, KeyBackspace, "/",
	"7", "8", "9", "*",
	"4", "5", "6", "-",
	"1", "2", "3", "+",
	"0", KeyDecimal, KeyEquals,
	KeyPercent, KeyMarkup,
}

// Press applies the action bound to a button label.
func (s State) Press(key string) (State, error) {
	key = strings.TrimSpace(key)
	switch strings.ToLower(key) {
	case "c", "clear", "esc":
		return s.Clear(), nil
	case KeyBackspace, "back", "backspace":
		return s.Backspace(), nil
	case KeyDecimal, ",":
		return s.InputDecimalPoint(), nil
	case KeyEquals, "enter":
		return s.Equals(), nil
	case KeyPercent, "%":
		return s.PercentOfValue(), nil
	case KeyMarkup, "markup":
		return s.Markup(), nil
	}
	if d, err := ParseDigit(key); err == nil {
		return s.InputDigit(d), nil
	}
	if op, err := ParseOperator(key); err == nil {
		return s.ApplyOperator(op), nil
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// PressAll applies a sequence of key labels, stopping at the first unknown
// key.
func (s State) PressAll(keys ...string) (State, error) {
	var err error
	for _, k := range keys {
		if s, err = s.Press(k); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Snapshot is the presentation view of a State.
type Snapshot struct {
	Display    string `json:"display"`
	Buffer     string `json:"buffer"`
	Expression string `json:"expression,omitempty"`
	Pending    string `json:"pending,omitempty"`
	Awaiting   bool   `json:"awaiting"`
}

// Snapshot returns the values a panel renders for s.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Display:    FormatDisplay(s.display),
		Buffer:     s.display,
		Expression: s.PendingExpression(),
		Pending:    s.pending.Symbol(),
		Awaiting:   s.awaiting,
	}
}
