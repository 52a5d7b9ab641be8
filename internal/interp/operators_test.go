package interp

import (
	"testing"

	"github.com/arlox/arlox/internal/token"
)

func TestEuclidMod(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{5, 3, 2},
		{-1, 3, 2},
		{-4, 3, 2},
		{4, -3, 1},
		{0, 3, 0},
	}
	for _, tt := range tests {
		if got := euclidMod(tt.a, tt.b); got != tt.want {
			t.Errorf("euclidMod(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestApplyPlusNumbers(t *testing.T) {
	v, err := applyPlus(Number(1), Number(2))
	if err != nil {
		t.Fatal(err)
	}
	if v != Number(3) {
		t.Errorf("got %v, want 3", v)
	}
}

func TestApplyPlusStringConcatenation(t *testing.T) {
	v, err := applyPlus(String("x="), Number(1))
	if err != nil {
		t.Fatal(err)
	}
	if v != String("x=1") {
		t.Errorf("got %v, want x=1", v)
	}

	v2, err := applyPlus(Number(1), String("!"))
	if err != nil {
		t.Fatal(err)
	}
	if v2 != String("1!") {
		t.Errorf("got %v, want 1!", v2)
	}
}

func TestApplyPlusListAppendMutatesInPlace(t *testing.T) {
	l := NewList([]Value{Number(1)})
	v, err := applyPlus(l, Number(2))
	if err != nil {
		t.Fatal(err)
	}
	result, ok := v.(*List)
	if !ok || result != l {
		t.Fatal("expected applyPlus on a list to return the same pointer")
	}
	if len(l.Elements) != 2 || l.Elements[1] != Number(2) {
		t.Errorf("expected the list to gain the appended element, got %v", l.Elements)
	}
}

func TestApplyPlusRejectsIncompatibleOperands(t *testing.T) {
	if _, err := applyPlus(Boolean(true), Boolean(false)); err == nil {
		t.Error("expected an error adding two booleans")
	}
}

func TestApplyMinusListRemovesByIndex(t *testing.T) {
	l := NewList([]Value{Number(10), Number(20), Number(30)})
	v, err := applyMinus(l, Number(1))
	if err != nil {
		t.Fatal(err)
	}
	result := v.(*List)
	if len(result.Elements) != 2 || result.Elements[0] != Number(10) || result.Elements[1] != Number(30) {
		t.Errorf("expected [10, 30], got %v", result.Elements)
	}
}

func TestApplyMinusListNegativeIndexWraps(t *testing.T) {
	l := NewList([]Value{Number(10), Number(20), Number(30)})
	v, err := applyMinus(l, Number(-1))
	if err != nil {
		t.Fatal(err)
	}
	result := v.(*List)
	if len(result.Elements) != 2 || result.Elements[1] != Number(20) {
		t.Errorf("expected last element removed, got %v", result.Elements)
	}
}

func TestApplyMinusOnEmptyListIsNoOp(t *testing.T) {
	l := NewList(nil)
	v, err := applyMinus(l, Number(0))
	if err != nil {
		t.Fatal(err)
	}
	if v.(*List) != l || len(l.Elements) != 0 {
		t.Error("expected a no-op on an empty list")
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		l, r Value
		want bool
	}{
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{Number(1), String("1"), false},
		{Nil, Nil, true},
		{Nil, Number(0), false},
		{String("a"), String("a"), true},
		{Boolean(true), Boolean(true), true},
	}
	for _, tt := range tests {
		if got := valuesEqual(tt.l, tt.r); got != tt.want {
			t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.l, tt.r, got, tt.want)
		}
	}
}

func TestValuesEqualHandleIdentity(t *testing.T) {
	if !valuesEqual(Handle(1), Handle(1)) {
		t.Error("expected two equal Handles to compare equal")
	}
	if valuesEqual(Handle(1), Handle(2)) {
		t.Error("expected different Handles to compare unequal")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{Boolean(false), false},
		{Boolean(true), true},
		{Number(0), true},
		{String(""), true},
	}
	for _, tt := range tests {
		if got := truthy(tt.v); got != tt.want {
			t.Errorf("truthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestApplyUnaryBangOnList(t *testing.T) {
	l := NewList([]Value{Number(1), Number(2), Number(3)})
	v, err := applyUnary(token.BANG, l)
	if err != nil {
		t.Fatal(err)
	}
	rev := v.(*List)
	if rev.Elements[0] != Number(3) || rev.Elements[2] != Number(1) {
		t.Errorf("expected the list reversed, got %v", rev.Elements)
	}
}

func TestApplyUnaryHashOnList(t *testing.T) {
	l := NewList([]Value{Number(1), Number(2)})
	v, err := applyUnary(token.HASH, l)
	if err != nil {
		t.Fatal(err)
	}
	if v != Number(2) {
		t.Errorf("got %v, want 2", v)
	}
}

func TestApplyUnaryMinus(t *testing.T) {
	v, err := applyUnary(token.MINUS, Number(5))
	if err != nil {
		t.Fatal(err)
	}
	if v != Number(-5) {
		t.Errorf("got %v, want -5", v)
	}
}

func TestApplyBinaryPercent(t *testing.T) {
	v, err := applyBinary(token.PERCENT, Number(-1), Number(3))
	if err != nil {
		t.Fatal(err)
	}
	if v != Number(2) {
		t.Errorf("got %v, want 2", v)
	}
}
