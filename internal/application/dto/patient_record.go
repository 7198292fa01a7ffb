package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// DecodePatientRecord parses a JSON object into a PatientRecord. Known fields
// must be JSON numbers; "name", when present, must be a string; unknown keys
// are ignored. Every problem is reported as a *model.InputError.
func DecodePatientRecord(data []byte) (model.PatientRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return model.PatientRecord{}, model.NewInputError("", fmt.Sprintf("malformed JSON: %v", err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.PatientRecord{}, model.NewInputError("", "malformed JSON: unexpected data after the top-level value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return model.PatientRecord{}, model.NewInputError("", "patient record must be a JSON object")
	}

	var violations []model.FieldViolation
	name := ""
	if v, present := obj["name"]; present {
		s, isString := v.(string)
		if !isString {
			violations = append(violations, model.FieldViolation{Field: "name", Message: "must be a string"})
		}
		name = s
	}

	values := make(map[valueobject.Field]decimal.Decimal)
	for _, f := range valueobject.AllFields() {
		v, present := obj[f.String()]
		if !present {
			continue
		}
		num, isNumber := v.(json.Number)
		if !isNumber {
			violations = append(violations, model.FieldViolation{Field: f.String(), Message: "must be a number"})
			continue
		}
		d, err := valueobject.ParseValue(num.String())
		if err != nil {
			violations = append(violations, model.FieldViolation{Field: f.String(), Message: err.Error()})
			continue
		}
		values[f] = d
	}

	if len(violations) > 0 {
		return model.PatientRecord{}, &model.InputError{Violations: violations}
	}
	return model.NewPatientRecord(name, values)
}
