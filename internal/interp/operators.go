package interp

import (
	"fmt"
	"math"

	"github.com/arlox/arlox/internal/token"
)

// applyBinary implements the operator table of spec.md §4.3. It is used
// both for ordinary binary expressions and, via the +=/-=/*=//=/%=
// compound-assignment desugaring, for the combinator step of spec.md
// §4.4.3 (the same rule applies either way).
func applyBinary(opKind token.Kind, left, right Value) (Value, error) {
	switch opKind {
	case token.PLUS:
		return applyPlus(left, right)
	case token.MINUS:
		return applyMinus(left, right)
	case token.STAR:
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			return nil, fmt.Errorf("'*' requires two numbers")
		}
		return ln * rn, nil
	case token.SLASH:
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			return nil, fmt.Errorf("'/' requires two numbers")
		}
		return ln / rn, nil
	case token.PERCENT:
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			return nil, fmt.Errorf("'%%' requires two numbers")
		}
		return Number(euclidMod(float64(ln), float64(rn))), nil
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		return applyComparison(opKind, left, right)
	case token.EQUAL_EQUAL:
		return Boolean(valuesEqual(left, right)), nil
	case token.BANG_EQUAL:
		return Boolean(!valuesEqual(left, right)), nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", opKind)
	}
}

func euclidMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += math.Abs(b)
	}
	return m
}

func applyPlus(left, right Value) (Value, error) {
	if l, ok := left.(*List); ok {
		l.Elements = append(l.Elements, right)
		return l, nil
	}
	if ls, ok := left.(String); ok {
		return ls + String(displayString(right)), nil
	}
	if rs, ok := right.(String); ok {
		return String(displayString(left)) + rs, nil
	}
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if lok && rok {
		return ln + rn, nil
	}
	return nil, fmt.Errorf("'+' requires two numbers, a list, or a string operand")
}

func applyMinus(left, right Value) (Value, error) {
	if l, ok := left.(*List); ok {
		rn, ok := right.(Number)
		if !ok {
			return nil, fmt.Errorf("'-' on a list requires a number index")
		}
		idx, ok := l.NormalizeIndex(int(rn))
		if !ok {
			return l, nil // no-op on empty list
		}
		l.Elements = append(l.Elements[:idx], l.Elements[idx+1:]...)
		return l, nil
	}
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if lok && rok {
		return ln - rn, nil
	}
	return nil, fmt.Errorf("'-' requires two numbers or a list and a number")
}

func applyComparison(opKind token.Kind, left, right Value) (Value, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, fmt.Errorf("comparison requires two numbers")
	}
	switch opKind {
	case token.GREATER:
		return Boolean(ln > rn), nil
	case token.GREATER_EQUAL:
		return Boolean(ln >= rn), nil
	case token.LESS:
		return Boolean(ln < rn), nil
	case token.LESS_EQUAL:
		return Boolean(ln <= rn), nil
	}
	return nil, fmt.Errorf("unreachable comparison operator")
}

// valuesEqual implements spec.md §4.3's equality rule: heterogeneous and
// nil comparisons are false except nil == nil.
func valuesEqual(left, right Value) bool {
	lNil, rNil := IsNil(left), IsNil(right)
	if lNil || rNil {
		return lNil && rNil
	}
	switch l := left.(type) {
	case Number:
		r, ok := right.(Number)
		return ok && l == r
	case String:
		r, ok := right.(String)
		return ok && l == r
	case Boolean:
		r, ok := right.(Boolean)
		return ok && l == r
	case Handle:
		r, ok := right.(Handle)
		return ok && l == r
	case *List:
		r, ok := right.(*List)
		return ok && l == r
	}
	return left == right
}

// displayString renders a value the way string concatenation does: the
// textual repr of the other operand (spec.md §4.3's "+": String×any).
func displayString(v Value) string {
	if v == nil || IsNil(v) {
		return "nil"
	}
	return v.String()
}

func truthy(v Value) bool {
	if v == nil || IsNil(v) {
		return false
	}
	if b, ok := v.(Boolean); ok {
		return bool(b)
	}
	return true
}

// applyUnary implements the "!", "-", "#" unary operators of spec.md §4.3.
func applyUnary(opKind token.Kind, v Value) (Value, error) {
	switch opKind {
	case token.BANG:
		if l, ok := v.(*List); ok {
			reversed := make([]Value, len(l.Elements))
			for i, e := range l.Elements {
				reversed[len(l.Elements)-1-i] = e
			}
			return NewList(reversed), nil
		}
		if IsNil(v) {
			return Boolean(true), nil
		}
		if b, ok := v.(Boolean); ok {
			return Boolean(!b), nil
		}
		return Boolean(false), nil
	case token.MINUS:
		n, ok := v.(Number)
		if !ok {
			return nil, fmt.Errorf("unary '-' requires a number")
		}
		return -n, nil
	case token.HASH:
		l, ok := v.(*List)
		if !ok {
			return nil, fmt.Errorf("unary '#' requires a list")
		}
		return Number(l.Len()), nil
	}
	return nil, fmt.Errorf("unsupported unary operator %s", opKind)
}
