package validation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// ErrInvalidField is the error every FieldError unwraps to.
var ErrInvalidField = errors.New("invalid field")

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Argument %s not valid: %s", e.Field, e.Message)
}

// Unwrap allows errors.Is(err, ErrInvalidField).
func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

// Constraints holds the configured request limits.
type Constraints struct {
	MaxItems       int
	MaxItemWeight  decimal.Decimal
	MaxItemPrice   decimal.Decimal
	MaxBoxWeight   decimal.Decimal
	WeightDecimals int
}

// Validator checks request fields against Constraints. Each rule returns nil
// or a *FieldError; callers combine them with multierr.
type Validator struct {
	constraints Constraints
}

// New creates a Validator for the given constraints.
func New(constraints Constraints) *Validator {
	return &Validator{constraints: constraints}
}

// Constraints returns the limits the validator enforces.
func (v *Validator) Constraints() Constraints {
	return v.constraints
}

// BoxWeight validates the maximum weight a combination may reach.
func (v *Validator) BoxWeight(field string, value *decimal.Decimal) error {
	return v.weight(field, "box weight", value, v.constraints.MaxBoxWeight)
}

// ItemWeight validates the weight of a single item.
func (v *Validator) ItemWeight(field string, value *decimal.Decimal) error {
	return v.weight(field, "item weight", value, v.constraints.MaxItemWeight)
}

// ItemPrice validates the price of a single item.
func (v *Validator) ItemPrice(field string, value *decimal.Decimal) error {
	if value == nil {
		return notNull(field)
	}
	if value.IsNegative() {
		return invalid(field, "invalid item price=%s. Price must be positive.", value)
	}
	if value.GreaterThan(v.constraints.MaxItemPrice) {
		return invalid(field, "invalid item price=%s. Price must be less than %s.", value, v.constraints.MaxItemPrice)
	}
	return nil
}

// ItemID validates that an item carries an id.
func (v *Validator) ItemID(field string, value *int) error {
	if value == nil {
		return notNull(field)
	}
	return nil
}

// ItemsList validates the presence and size of the items list.
func (v *Validator) ItemsList(field string, present bool, size int) error {
	if !present {
		return notNull(field)
	}
	if size > v.constraints.MaxItems {
		return invalid(field, "invalid number of items=%d. Number of items must be within %d.", size, v.constraints.MaxItems)
	}
	return nil
}

// UniqueIDs rejects ids that occur more than once.
func (v *Validator) UniqueIDs(field string, ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	var errs error
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			errs = multierr.Append(errs, invalid(field, "duplicate item id=%d. Item ids must be unique.", id))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs
}

func (v *Validator) weight(field, label string, value *decimal.Decimal, limit decimal.Decimal) error {
	if value == nil {
		return notNull(field)
	}
	if decimals := Decimals(*value); decimals > v.constraints.WeightDecimals {
		return invalid(field, "invalid %s=%s. Weight must have at most %d decimals.", label, value, v.constraints.WeightDecimals)
	}
	if value.IsNegative() {
		return invalid(field, "invalid %s=%s. Weight must be positive.", label, value)
	}
	if value.GreaterThan(limit) {
		return invalid(field, "invalid %s=%s. Weight must be less than %s.", label, value, limit)
	}
	return nil
}

// Decimals returns the number of digits written after the decimal point,
// so "1.50" has two.
func Decimals(value decimal.Decimal) int {
	if exp := value.Exponent(); exp < 0 {
		return int(-exp)
	}
	return 0
}

// Messages flattens a combined validation error into its individual messages.
func Messages(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func notNull(field string) error {
	return &FieldError{Field: field, Message: "must not be null."}
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
