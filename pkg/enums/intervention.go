package enums

import "fmt"

// InterventionKind discriminates the scenario intervention variants.
type InterventionKind string

const (
	InterventionKindPriceChange InterventionKind = "price_change"
	InterventionKindPromotion   InterventionKind = "promotion"
)

var validInterventionKinds = []InterventionKind{
	InterventionKindPriceChange,
	InterventionKindPromotion,
}

// String implements fmt.Stringer.
func (k InterventionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known InterventionKind.
func (k InterventionKind) IsValid() bool {
	for _, candidate := range validInterventionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseInterventionKind converts raw input into an InterventionKind.
func ParseInterventionKind(value string) (InterventionKind, error) {
	for _, candidate := range validInterventionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid intervention kind %q", value)
}

// PriceChangeMode determines how a price change value is applied.
type PriceChangeMode string

const (
	PriceChangeModePercent  PriceChangeMode = "percent"
	PriceChangeModeAbsolute PriceChangeMode = "absolute"
)

var validPriceChangeModes = []PriceChangeMode{
	PriceChangeModePercent,
	PriceChangeModeAbsolute,
}

// String implements fmt.Stringer.
func (m PriceChangeMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PriceChangeMode.
func (m PriceChangeMode) IsValid() bool {
	for _, candidate := range validPriceChangeModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePriceChangeMode converts raw input into a PriceChangeMode.
func ParsePriceChangeMode(value string) (PriceChangeMode, error) {
	for _, candidate := range validPriceChangeModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price change mode %q", value)
}

// PromoKind determines how a promotion discount is computed.
type PromoKind string

const (
	PromoKindPercentOff PromoKind = "percent_off"
	PromoKindAmountOff  PromoKind = "amount_off"
)

var validPromoKinds = []PromoKind{
	PromoKindPercentOff,
	PromoKindAmountOff,
}

// String implements fmt.Stringer.
func (k PromoKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known PromoKind.
func (k PromoKind) IsValid() bool {
	for _, candidate := range validPromoKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParsePromoKind converts raw input into a PromoKind.
func ParsePromoKind(value string) (PromoKind, error) {
	for _, candidate := range validPromoKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promo kind %q", value)
}
