package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// RuleBasedFields are the fields the threshold strategy reads.
var RuleBasedFields = []valueobject.Field{
	valueobject.FieldChestPainType,
	valueobject.FieldCholesterol,
	valueobject.FieldBloodPressure,
}

// ClassifierFields are the fields the learned classifier reads, in feature order.
var ClassifierFields = []valueobject.Field{
	valueobject.FieldAge,
	valueobject.FieldGender,
	valueobject.FieldChestPainType,
	valueobject.FieldBloodPressure,
	valueobject.FieldCholesterol,
}

// PatientRecord is an immutable set of named numeric patient attributes.
// Fields that were not supplied are absent, never defaulted.
type PatientRecord struct {
	values map[string]decimal.Decimal
	name   string
}

// NewPatientRecord validates the shape of each supplied value and returns a record.
func NewPatientRecord(name string, values map[valueobject.Field]decimal.Decimal) (PatientRecord, error) {
	rec := PatientRecord{name: name, values: make(map[string]decimal.Decimal, len(values))}
	var violations []FieldViolation

	for _, f := range valueobject.AllFields() {
		v, ok := values[f]
		if !ok {
			continue
		}
		if f.Integral() && !v.IsInteger() {
			violations = append(violations, FieldViolation{Field: f.String(), Message: "must be an integer"})
			continue
		}
		if f.Equal(valueobject.FieldGender) && !f.InRange(v) {
			violations = append(violations, FieldViolation{Field: f.String(), Message: "must be 0 or 1"})
			continue
		}
		rec.values[f.String()] = v
	}

	if len(violations) > 0 {
		return PatientRecord{}, &InputError{Violations: violations}
	}
	return rec, nil
}

// Name returns the optional patient name.
func (r PatientRecord) Name() string {
	return r.name
}

// Value returns the value of f and whether it was supplied.
func (r PatientRecord) Value(f valueobject.Field) (decimal.Decimal, bool) {
	v, ok := r.values[f.String()]
	return v, ok
}

// Has reports whether f was supplied.
func (r PatientRecord) Has(f valueobject.Field) bool {
	_, ok := r.values[f.String()]
	return ok
}

// Require returns an InputError naming every field in fields that is absent.
func (r PatientRecord) Require(fields ...valueobject.Field) error {
	var violations []FieldViolation
	for _, f := range fields {
		if !r.Has(f) {
			violations = append(violations, FieldViolation{Field: f.String(), Message: "required field is missing"})
		}
	}
	if len(violations) > 0 {
		return &InputError{Violations: violations}
	}
	return nil
}

// ValidateRanges checks every field in fields is present and within its
// clinical range.
func (r PatientRecord) ValidateRanges(fields ...valueobject.Field) error {
	var violations []FieldViolation
	for _, f := range fields {
		v, ok := r.Value(f)
		if !ok {
			violations = append(violations, FieldViolation{Field: f.String(), Message: "required field is missing"})
			continue
		}
		if !f.InRange(v) {
			violations = append(violations, FieldViolation{
				Field:   f.String(),
				Message: fmt.Sprintf("must be between %s and %s", f.Min(), f.Max()),
			})
		}
	}
	if len(violations) > 0 {
		return &InputError{Violations: violations}
	}
	return nil
}

// FeatureVector returns the values of fields, in order, as float64.
func (r PatientRecord) FeatureVector(fields ...valueobject.Field) ([]float64, error) {
	if err := r.Require(fields...); err != nil {
		return nil, err
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = r.values[f.String()].InexactFloat64()
	}
	return out, nil
}
