package enums

import "fmt"

// PriceSensitivity represents how strongly a synthetic customer reacts to price.
type PriceSensitivity string

const (
	PriceSensitivityLow  PriceSensitivity = "low"
	PriceSensitivityMid  PriceSensitivity = "mid"
	PriceSensitivityHigh PriceSensitivity = "high"
)

var validPriceSensitivities = []PriceSensitivity{
	PriceSensitivityLow,
	PriceSensitivityMid,
	PriceSensitivityHigh,
}

// String implements fmt.Stringer.
func (p PriceSensitivity) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceSensitivity.
func (p PriceSensitivity) IsValid() bool {
	for _, candidate := range validPriceSensitivities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceSensitivity converts raw input into a PriceSensitivity.
func ParsePriceSensitivity(value string) (PriceSensitivity, error) {
	for _, candidate := range validPriceSensitivities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price sensitivity %q", value)
}
