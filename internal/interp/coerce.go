package interp

import (
	"strconv"

	"github.com/arlox/arlox/internal/token"
)

// applyIs implements the `is` type test of spec.md §4.3: only the
// primitive type keywords are recognised (spec.md §9 Open Question (a)).
func applyIs(v Value, typeKind token.Kind) Boolean {
	switch typeKind {
	case token.NUM:
		_, ok := v.(Number)
		return Boolean(ok)
	case token.STRING_KW:
		_, ok := v.(String)
		return Boolean(ok)
	case token.BOOL:
		_, ok := v.(Boolean)
		return Boolean(ok)
	}
	return false
}

// applyAs implements the `as` coercion table of spec.md §4.3. A failed
// string-to-number parse yields Number(0), per spec.md.
func applyAs(v Value, typeKind token.Kind) (Value, error) {
	switch typeKind {
	case token.STRING_KW:
		return String(displayString(v)), nil
	case token.NUM:
		switch val := v.(type) {
		case Number:
			return val, nil
		case Boolean:
			if val {
				return Number(1), nil
			}
			return Number(0), nil
		case String:
			f, err := strconv.ParseFloat(string(val), 64)
			if err != nil {
				return Number(0), nil
			}
			return Number(f), nil
		}
		return nil, unsupportedAs(v, typeKind)
	case token.BOOL:
		switch val := v.(type) {
		case Boolean:
			return val, nil
		case Number:
			return Boolean(val != 0), nil
		case String:
			return Boolean(val == "true"), nil
		}
		return nil, unsupportedAs(v, typeKind)
	}
	return nil, unsupportedAs(v, typeKind)
}

func unsupportedAs(v Value, typeKind token.Kind) error {
	return &coerceError{from: v.Type(), to: typeKind.String()}
}

type coerceError struct{ from, to string }

func (e *coerceError) Error() string {
	return "cannot convert " + e.from + " as " + e.to
}
