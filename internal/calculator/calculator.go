// Package calculator implements the evaluator behind the calculator panel.
//
// Evaluation is strictly left to right with no operator precedence: entering a
// new operator immediately folds the pending one into the accumulator, so
// "2 + 3 * 4 =" yields 20. Every operation is a pure transition on State.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Operator is a binary arithmetic operator awaiting its right operand.
type Operator uint8

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// Digit is a single decimal digit, 0 through 9.
type Digit uint8

var (
	ErrInvalidDigit    = errors.New("invalid digit")
	ErrInvalidOperator = errors.New("invalid operator")
)

// Quick action multipliers.
var (
	PercentRate = decimal.RequireFromString("0.10")
	MarkupRate  = decimal.RequireFromString("1.10")
)

// Symbol returns the key label of the operator.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return ""
	}
}

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return "none"
	}
}

// ParseOperator maps a key label to an operator.
func ParseOperator(s string) (Operator, error) {
	switch strings.TrimSpace(s) {
	case "+":
		return OpAdd, nil
	case "-", "−":
		return OpSubtract, nil
	case "*", "×", "x":
		return OpMultiply, nil
	case "/", "÷":
		return OpDivide, nil
	}
	return OpNone, ErrInvalidOperator
}

// ParseDigit maps a single-character key label to a digit.
func ParseDigit(s string) (Digit, error) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, ErrInvalidDigit
	}
	return Digit(s[0] - '0'), nil
}

// Evaluate applies op to a and b. Division by zero is not trapped: it
// produces the IEEE-754 infinity or NaN.
func Evaluate(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		return a / b
	default:
		return b
	}
}

// State is the complete evaluator state. The zero value is not the initial
// state; use New.
type State struct {
	display     string
	accumulator float64
	hasAcc      bool
	pending     Operator
	awaiting    bool
}

// New returns the initial state: display "0", no accumulator, no pending
// operator.
func New() State {
	return State{display: "0"}
}

// Display returns the raw display buffer.
func (s State) Display() string { return s.display }

// Accumulator returns the running value and whether one is set.
func (s State) Accumulator() (float64, bool) { return s.accumulator, s.hasAcc }

// Pending returns the operator waiting for its right operand.
func (s State) Pending() Operator { return s.pending }

// Awaiting reports whether the next digit starts a new operand.
func (s State) Awaiting() bool { return s.awaiting }

// InputDigit enters one digit. Values above 9 are ignored.
func (s State) InputDigit(d Digit) State {
	if d > 9 {
		return s
	}
	ch := string(rune('0' + d))
	switch {
	case s.awaiting:
		s.display = ch
		s.awaiting = false
	case s.display == "0":
		s.display = ch
	default:
		s.display += ch
	}
	return s
}

// InputDecimalPoint starts or extends the fractional part of the operand.
func (s State) InputDecimalPoint() State {
	if s.awaiting {
		s.display = "0."
		s.awaiting = false
		return s
	}
	if !strings.Contains(s.display, ".") {
		s.display += "."
	}
	return s
}

// Backspace drops the last character of the display, never leaving it empty.
func (s State) Backspace() State {
	if len(s.display) > 1 {
		s.display = s.display[:len(s.display)-1]
	} else {
		s.display = "0"
	}
	return s
}

// Clear returns the initial state regardless of history.
func (s State) Clear() State {
	return New()
}

// ApplyOperator folds the pending operation, if any, into the accumulator and
// makes op the new pending operator.
func (s State) ApplyOperator(op Operator) State {
	current := parseOperand(s.display)
	if !s.hasAcc {
		s.accumulator = current
		s.hasAcc = true
	} else {
		s.accumulator = Evaluate(s.accumulator, current, s.pending)
		s.display = FormatNumber(s.accumulator)
	}
	s.pending = op
	s.awaiting = true
	return s
}

// Equals completes the chain. Without an accumulator and a pending operator
// it is a no-op.
func (s State) Equals() State {
	if !s.hasAcc || s.pending == OpNone {
		return s
	}
	current := parseOperand(s.display)
	s.display = FormatNumber(Evaluate(s.accumulator, current, s.pending))
	s.accumulator = 0
	s.hasAcc = false
	s.pending = OpNone
	s.awaiting = true
	return s
}

// ApplyMultiplier scales the displayed value by rate without touching the
// accumulator or the pending operator.
func (s State) ApplyMultiplier(rate decimal.Decimal) State {
	v := parseOperand(s.display)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.display = FormatNumber(v * rate.InexactFloat64())
	} else {
		s.display = FormatNumber(decimal.NewFromFloat(v).Mul(rate).InexactFloat64())
	}
	s.awaiting = true
	return s
}

// PercentOfValue replaces the display with 10% of its value.
func (s State) PercentOfValue() State { return s.ApplyMultiplier(PercentRate) }

// Markup replaces the display with its value plus 10%.
func (s State) Markup() State { return s.ApplyMultiplier(MarkupRate) }

// PendingExpression renders the secondary display line, e.g. "1,500 +".
// It is empty unless both an accumulator and an operator are set.
func (s State) PendingExpression() string {
	if !s.hasAcc || s.pending == OpNone {
		return ""
	}
	return FormatDisplay(FormatNumber(s.accumulator)) + " " + s.pending.Symbol()
}

// parseOperand reads the display as a float. A buffer that is not a numeral
// (for example "Infinit" after a backspace) reads as NaN.
func parseOperand(display string) float64 {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// Evaluator is a mutable handle around a State for callers that own a single
// calculator session.
type Evaluator struct {
	state State
}

// NewEvaluator returns an evaluator in the initial state.
func NewEvaluator() *Evaluator {
	return &Evaluator{state: New()}
}

func (e *Evaluator) State() State { return e.state }
func (e *Evaluator) Display() string { return e.state.display }
func (e *Evaluator) InputDigit(d Digit) { e.state = e.state.InputDigit(d) }
func (e *Evaluator) InputDecimalPoint() { e.state = e.state.InputDecimalPoint() }
func (e *Evaluator) Backspace() { e.state = e.state.Backspace() }
func (e *Evaluator) Clear() { e.state = e.state.Clear() }
func (e *Evaluator) ApplyOperator(op Operator) { e.state = e.state.ApplyOperator(op) }
func (e *Evaluator) Equals() { e.state = e.state.Equals() }
func (e *Evaluator) PercentOfValue() { e.state = e.state.PercentOfValue() }
func (e *Evaluator) Markup() { e.state = e.state.Markup() }
func (e *Evaluator) ApplyMultiplier(r decimal.Decimal) { e.state = e.state.ApplyMultiplier(r) }

// Press applies a key label to the evaluator.
func (e *Evaluator) Press(key string) error {
	next, err := e.state.Press(key)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}
