package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() (Amount, error)
		expected Amount
	}{
		{"Add", func() (Amount, error) { return NewAmount(100).Add(NewAmount(200)) }, NewAmount(300)},
		{"Sub", func() (Amount, error) { return NewAmount(500).Sub(NewAmount(200)) }, NewAmount(300)},
		{"Mul", func() (Amount, error) { return NewAmount(100).Mul(NewAmount(3)) }, NewAmount(300)},
		{"MulUint64", func() (Amount, error) { return NewAmount(100).MulUint64(3) }, NewAmount(300)},
		{"Div floors", func() (Amount, error) { return NewAmount(901).Div(NewAmount(3)) }, NewAmount(300)},
		{"DivUint64", func() (Amount, error) { return NewAmount(604800).DivUint64(604800) }, NewAmount(1)},
		{"Beyond uint64", func() (Amount, error) {
			return NewAmount(math.MaxUint64).Add(NewAmount(1))
		}, MustParseAmount("18446744073709551616")},
		{"Scaled by precision", func() (Amount, error) {
			return NewAmount(86400).Mul(Precision)
		}, MustParseAmount("86400000000000000000000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAmountCheckedErrors(t *testing.T) {
	maxAmount := MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	tests := []struct {
		name string
		op   func() (Amount, error)
		want error
	}{
		{"Add overflow", func() (Amount, error) { return maxAmount.Add(NewAmount(1)) }, ErrOverflow},
		{"Mul overflow", func() (Amount, error) { return maxAmount.Mul(NewAmount(2)) }, ErrOverflow},
		{"Sub underflow", func() (Amount, error) { return NewAmount(3).Sub(NewAmount(5)) }, ErrUnderflow},
		{"Div by zero", func() (Amount, error) { return NewAmount(3).Div(Zero()) }, ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAmountComparison(t *testing.T) {
	a, b := NewAmount(1), NewAmount(2)
	if !a.LessThan(b) || b.LessThan(a) {
		t.Error("LessThan mismatch")
	}
	if !b.GreaterThan(a) {
		t.Error("GreaterThan mismatch")
	}
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(a) != 0 {
		t.Error("Cmp mismatch")
	}
	if a.Min(b) != a {
		t.Error("Min mismatch")
	}
	if !Zero().IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
	var zero Amount
	if zero != Zero() {
		t.Error("zero value should equal Zero()")
	}
}

func TestAmountParse(t *testing.T) {
	if _, err := ParseAmount(""); err == nil {
		t.Error("expected error for empty string")
	}
	if _, err := ParseAmount("-1"); err == nil {
		t.Error("expected error for negative value")
	}
	if _, err := ParseAmount("12abc"); err == nil {
		t.Error("expected error for garbage")
	}
	got, err := ParseAmount("1000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Precision) {
		t.Errorf("got %s, want %s", got, Precision)
	}
}

func TestAmountJSON(t *testing.T) {
	original := MustParseAmount("123456789012345678901234567890")
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"123456789012345678901234567890"` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var restored Amount
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !restored.Equal(original) {
		t.Errorf("got %s, want %s", restored, original)
	}

	var fromNumber Amount
	if err := json.Unmarshal([]byte(`42`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromNumber.Equal(NewAmount(42)) {
		t.Errorf("got %s, want 42", fromNumber)
	}
}

func TestAmountValueScan(t *testing.T) {
	original := MustParseAmount("99999999999999999999")
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned Amount
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !scanned.Equal(original) {
		t.Errorf("got %s, want %s", scanned, original)
	}

	if err := scanned.Scan(int64(7)); err != nil {
		t.Fatalf("Scan(int64) failed: %v", err)
	}
	if !scanned.Equal(NewAmount(7)) {
		t.Errorf("got %s, want 7", scanned)
	}

	if err := scanned.Scan(3.5); err == nil {
		t.Error("expected error scanning float")
	}
}

func TestSum(t *testing.T) {
	got, err := Sum(NewAmount(1), NewAmount(2), NewAmount(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NewAmount(6)) {
		t.Errorf("got %s, want 6", got)
	}

	empty, err := Sum()
	if err != nil || !empty.IsZero() {
		t.Errorf("empty sum: got %s, %v", empty, err)
	}
}
