package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

func testValidator() *Validator {
	return New(Constraints{
		MaxItems:       3,
		MaxItemWeight:  decimal.NewFromInt(100),
		MaxItemPrice:   decimal.NewFromInt(100),
		MaxBoxWeight:   decimal.NewFromInt(100),
		WeightDecimals: 2,
	})
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestWeightRules(t *testing.T) {
	t.Parallel()

	v := testValidator()
	tests := []struct {
		name    string
		value   *decimal.Decimal
		wantMsg string
	}{
		{name: "Valid", value: dec("74.57")},
		{name: "ValidAtLimit", value: dec("100.00")},
		{name: "Zero", value: dec("0")},
		{name: "Null", value: nil, wantMsg: "must not be null."},
		{name: "TooManyDecimals", value: dec("1.505"), wantMsg: "at most 2 decimals"},
		{name: "Negative", value: dec("-1"), wantMsg: "must be positive"},
		{name: "AboveLimit", value: dec("100.01"), wantMsg: "must be less than 100"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, err := range []error{v.BoxWeight("max_weight", tc.value), v.ItemWeight("items[0].Weight", tc.value)} {
				if tc.wantMsg == "" {
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					continue
				}
				if !errors.Is(err, ErrInvalidField) {
					t.Fatalf("expected ErrInvalidField, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.wantMsg) {
					t.Fatalf("expected %q in %q", tc.wantMsg, err.Error())
				}
			}
		})
	}
}

func TestItemPrice(t *testing.T) {
	t.Parallel()

	v := testValidator()
	if err := v.ItemPrice("Price", dec("99.999")); err != nil {
		t.Fatalf("prices are not bound by weight decimals: %v", err)
	}
	if err := v.ItemPrice("Price", nil); err == nil {
		t.Fatalf("expected error for null price")
	}
	if err := v.ItemPrice("Price", dec("-0.01")); err == nil {
		t.Fatalf("expected error for negative price")
	}
	if err := v.ItemPrice("Price", dec("100.5")); err == nil {
		t.Fatalf("expected error for price above limit")
	}
}

func TestItemsListAndIDs(t *testing.T) {
	t.Parallel()

	v := testValidator()
	if err := v.ItemsList("items", true, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.ItemsList("items", true, 0); err != nil {
		t.Fatalf("empty list must be accepted: %v", err)
	}
	if err := v.ItemsList("items", false, 0); err == nil {
		t.Fatalf("expected error for missing list")
	}
	if err := v.ItemsList("items", true, 4); err == nil || !strings.Contains(err.Error(), "within 3") {
		t.Fatalf("expected size error, got %v", err)
	}

	id := 4
	if err := v.ItemID("Item ID", &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.ItemID("Item ID", nil); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestUniqueIDs(t *testing.T) {
	t.Parallel()

	v := testValidator()
	if err := v.UniqueIDs("items", []int{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.UniqueIDs("items", []int{1, 2, 1, 2, 1})
	if got := len(multierr.Errors(err)); got != 3 {
		t.Fatalf("expected 3 duplicate errors, got %d (%v)", got, err)
	}
}

func TestMessagesFlattensCombinedErrors(t *testing.T) {
	t.Parallel()

	v := testValidator()
	var errs error
	errs = multierr.Append(errs, v.BoxWeight("max_weight", nil))
	errs = multierr.Append(errs, v.ItemPrice("items[1].Price", dec("-3")))
	errs = multierr.Append(errs, v.ItemID("items[2].Item ID", &[]int{1}[0]))

	msgs := Messages(errs)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
	if msgs[0] != "Argument max_weight not valid: must not be null." {
		t.Fatalf("unexpected first message %q", msgs[0])
	}
	if len(Messages(nil)) != 0 {
		t.Fatalf("expected no messages for nil error")
	}
}

func TestDecimals(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"1": 0, "1.5": 1, "1.50": 2, "0.001": 3, "1E+2": 0}
	for in, want := range cases {
		if got := Decimals(decimal.RequireFromString(in)); got != want {
			t.Fatalf("Decimals(%s) = %d, want %d", in, got, want)
		}
	}
}
