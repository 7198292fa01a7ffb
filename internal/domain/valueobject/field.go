package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Field is an immutable value object naming a patient attribute. It carries the
// wire name, the training-table column and the accepted clinical range.
type Field struct {
	name     string
	column   string
	min      int64
	max      int64
	integral bool
}

var (
	FieldAge           = Field{name: "age", column: "age", min: 18, max: 100}
	FieldGender        = Field{name: "gender", column: "sex", min: 0, max: 1, integral: true}
	FieldChestPainType = Field{name: "chestPainType", column: "cp", min: 0, max: 3, integral: true}
	FieldBloodPressure = Field{name: "bloodPressure", column: "trestbps", min: 80, max: 250}
	FieldCholesterol   = Field{name: "cholesterol", column: "chol", min: 100, max: 600}
)

// Accepted values stay within these bounds. Decimal comparisons rescale both
// operands to the smaller exponent, so an unbounded exponent costs unbounded
// time and memory.
const (
	maxExponent = 20
	maxDigits   = 40
)

var (
	ErrNotANumber      = errors.New("must be a number")
	ErrValueOutOfRange = errors.New("is outside the supported numeric range")
)

// ParseValue parses a field value written as a decimal number. Non-finite
// values and values with extreme exponents or precision are rejected.
func ParseValue(s string) (decimal.Decimal, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return decimal.Decimal{}, ErrNotANumber
	}
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, ErrValueOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrNotANumber
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxDigits {
		return decimal.Decimal{}, ErrValueOutOfRange
	}
	return d, nil
}

// AllFields returns every known field in feature-vector order.
func AllFields() []Field {
	return []Field{FieldAge, FieldGender, FieldChestPainType, FieldBloodPressure, FieldCholesterol}
}

// FieldFromName reconstructs a Field from its wire name.
func FieldFromName(s string) (Field, error) {
	for _, f := range AllFields() {
		if f.name == s {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("invalid field: %s", s)
}

// String returns the wire name.
func (f Field) String() string {
	return f.name
}

// Column returns the name of the matching column in the training table.
func (f Field) Column() string {
	return f.column
}

// Integral reports whether the field only accepts whole numbers.
func (f Field) Integral() bool {
	return f.integral
}

// Min returns the lowest clinically accepted value.
func (f Field) Min() decimal.Decimal {
	return decimal.NewFromInt(f.min)
}

// Max returns the highest clinically accepted value.
func (f Field) Max() decimal.Decimal {
	return decimal.NewFromInt(f.max)
}

// InRange reports whether v lies within [Min, Max].
func (f Field) InRange(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(f.Min()) && v.LessThanOrEqual(f.Max())
}

// IsZero returns true if the Field has not been set.
func (f Field) IsZero() bool {
	return f.name == ""
}

// Equal checks equality with another Field.
func (f Field) Equal(other Field) bool {
	return f.name == other.name
}
