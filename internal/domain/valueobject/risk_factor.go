package valueobject

import "fmt"

// RiskFactor is an immutable value object naming a clinical threshold
// condition that contributed to a rule-based verdict.
type RiskFactor struct {
	value string
}

var (
	RiskFactorChestPain         = RiskFactor{value: "chest_pain"}
	RiskFactorHighCholesterol   = RiskFactor{value: "high_cholesterol"}
	RiskFactorHighBloodPressure = RiskFactor{value: "high_blood_pressure"}
)

// RiskFactorFromString reconstructs a RiskFactor from its string representation.
func RiskFactorFromString(s string) (RiskFactor, error) {
	switch s {
	case "chest_pain":
		return RiskFactorChestPain, nil
	case "high_cholesterol":
		return RiskFactorHighCholesterol, nil
	case "high_blood_pressure":
		return RiskFactorHighBloodPressure, nil
	default:
		return RiskFactor{}, fmt.Errorf("invalid risk factor: %s", s)
	}
}

// RiskFactorStrings converts a slice of factors to their string forms.
func RiskFactorStrings(factors []RiskFactor) []string {
	out := make([]string, 0, len(factors))
	for _, f := range factors {
		out = append(out, f.value)
	}
	return out
}

// String returns the string representation.
func (r RiskFactor) String() string {
	return r.value
}

// IsZero returns true if the RiskFactor has not been set.
func (r RiskFactor) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskFactor.
func (r RiskFactor) Equal(other RiskFactor) bool {
	return r.value == other.value
}
