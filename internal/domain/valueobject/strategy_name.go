package valueobject

import "fmt"

// StrategyName identifies which scoring strategy produced a verdict.
type StrategyName struct {
	value string
}

var (
	StrategyRuleBased         = StrategyName{value: "rule-based"}
	StrategyLearnedClassifier = StrategyName{value: "learned-classifier"}
)

// StrategyNameFromString reconstructs a StrategyName from its string representation.
func StrategyNameFromString(s string) (StrategyName, error) {
	switch s {
	case "rule-based":
		return StrategyRuleBased, nil
	case "learned-classifier":
		return StrategyLearnedClassifier, nil
	default:
		return StrategyName{}, fmt.Errorf("invalid scoring strategy: %q (expected rule-based|learned-classifier)", s)
	}
}

// String returns the string representation.
func (s StrategyName) String() string {
	return s.value
}

// IsZero returns true if the StrategyName has not been set.
func (s StrategyName) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another StrategyName.
func (s StrategyName) Equal(other StrategyName) bool {
	return s.value == other.value
}
