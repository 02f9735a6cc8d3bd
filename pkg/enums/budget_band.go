package enums

import "fmt"

// BudgetBand represents the spending capacity band of a synthetic customer.
type BudgetBand string

const (
	BudgetBandLow  BudgetBand = "low"
	BudgetBandMid  BudgetBand = "mid"
	BudgetBandHigh BudgetBand = "high"
)

var validBudgetBands = []BudgetBand{
	BudgetBandLow,
	BudgetBandMid,
	BudgetBandHigh,
}

// String implements fmt.Stringer.
func (b BudgetBand) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BudgetBand.
func (b BudgetBand) IsValid() bool {
	for _, candidate := range validBudgetBands {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBudgetBand converts raw input into a BudgetBand.
func ParseBudgetBand(value string) (BudgetBand, error) {
	for _, candidate := range validBudgetBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid budget band %q", value)
}
