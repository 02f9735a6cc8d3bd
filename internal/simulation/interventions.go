package simulation

import (
	"time"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// DateWindow is an inclusive activation range. A nil bound is unbounded on
// that side.
type DateWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether the window is active on the given date.
func (w DateWindow) Contains(date time.Time) bool {
	day := dateOnly(date)
	if w.Start != nil && day.Before(dateOnly(*w.Start)) {
		return false
	}
	if w.End != nil && day.After(dateOnly(*w.End)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Scope limits a price change to a category, a brand, or a single SKU.
// Exactly one field is expected to be set; an empty scope matches everything.
type Scope struct {
	Category  enums.ProductCategory `json:"category,omitempty"`
	BrandID   string                `json:"brand_id,omitempty"`
	ProductID string                `json:"product_id,omitempty"`
}

// Matches reports whether the scope applies to the product.
func (s Scope) Matches(p Product) bool {
	if s.Category != "" && s.Category != p.Category {
		return false
	}
	if s.BrandID != "" && s.BrandID != p.BrandID {
		return false
	}
	if s.ProductID != "" && s.ProductID != p.ID {
		return false
	}
	return true
}

// Eligibility filters a promotion by category, brand, or SKU lists. Empty
// lists are treated as wildcards.
type Eligibility struct {
	Categories []enums.ProductCategory `json:"categories,omitempty"`
	BrandIDs   []string                `json:"brand_ids,omitempty"`
	ProductIDs []string                `json:"product_ids,omitempty"`
}

// Matches reports whether the product is eligible.
func (e Eligibility) Matches(p Product) bool {
	if len(e.Categories) > 0 && !containsValue(e.Categories, p.Category) {
		return false
	}
	if len(e.BrandIDs) > 0 && !containsValue(e.BrandIDs, p.BrandID) {
		return false
	}
	if len(e.ProductIDs) > 0 && !containsValue(e.ProductIDs, p.ID) {
		return false
	}
	return true
}

func containsValue[T comparable](items []T, value T) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

// PriceChange adjusts a product's list price while active.
type PriceChange struct {
	ID         string                `json:"id"`
	Scope      Scope                 `json:"scope"`
	Mode       enums.PriceChangeMode `json:"mode"`
	Value      float64               `json:"value"`
	FloorPrice *float64              `json:"floor_price,omitempty"`
	Window     DateWindow            `json:"window"`
}

// Apply returns the adjusted price, clamped to the floor (default 0).
func (pc PriceChange) Apply(price float64) float64 {
	adjusted := price
	switch pc.Mode {
	case enums.PriceChangeModeAbsolute:
		adjusted = price + pc.Value
	default:
		adjusted = price * (1 + pc.Value/100)
	}

	floor := 0.0
	if pc.FloorPrice != nil {
		floor = *pc.FloorPrice
	}
	if adjusted < floor {
		adjusted = floor
	}
	return adjusted
}

// Promotion applies a discount on top of the (possibly price-changed) price.
type Promotion struct {
	ID          string          `json:"id"`
	Eligibility Eligibility     `json:"eligibility"`
	Kind        enums.PromoKind `json:"kind"`
	Value       float64         `json:"value"`
	Window      DateWindow      `json:"window"`
}

// Discount returns the discount amount for the given unit price.
func (p Promotion) Discount(price float64) float64 {
	if p.Kind == enums.PromoKindAmountOff {
		return p.Value
	}
	return price * p.Value / 100
}

// Tag returns the kind-tagged identifier recorded in order signals.
func (p Promotion) Tag() string {
	return p.Kind.String() + ":" + p.ID
}

// Intervention is the tagged union of scenario changes. Kind selects which
// payload is populated; the other pointer is nil.
type Intervention struct {
	Kind        enums.InterventionKind `json:"kind"`
	PriceChange *PriceChange           `json:"price_change,omitempty"`
	Promotion   *Promotion             `json:"promotion,omitempty"`
}

// NewPriceChange wraps a price change as an intervention.
func NewPriceChange(pc PriceChange) Intervention {
	return Intervention{Kind: enums.InterventionKindPriceChange, PriceChange: &pc}
}

// NewPromotion wraps a promotion as an intervention.
func NewPromotion(p Promotion) Intervention {
	return Intervention{Kind: enums.InterventionKindPromotion, Promotion: &p}
}

// ActiveOn reports whether the intervention's window covers the date.
func (iv Intervention) ActiveOn(date time.Time) bool {
	switch iv.Kind {
	case enums.InterventionKindPriceChange:
		return iv.PriceChange != nil && iv.PriceChange.Window.Contains(date)
	case enums.InterventionKindPromotion:
		return iv.Promotion != nil && iv.Promotion.Window.Contains(date)
	}
	return false
}

// activeInterventions filters the scenario list down to the given date,
// preserving declaration order.
func activeInterventions(interventions []Intervention, date time.Time) []Intervention {
	active := make([]Intervention, 0, len(interventions))
	for _, iv := range interventions {
		if iv.ActiveOn(date) {
			active = append(active, iv)
		}
	}
	return active
}

// firstMatchingPriceChange resolves which price change applies to a product:
// the first one in declaration order wins, price changes never stack.
func firstMatchingPriceChange(active []Intervention, p Product) *PriceChange {
	for _, iv := range active {
		if iv.Kind != enums.InterventionKindPriceChange || iv.PriceChange == nil {
			continue
		}
		if iv.PriceChange.Scope.Matches(p) {
			return iv.PriceChange
		}
	}
	return nil
}

// firstMatchingPromotion resolves which promotion applies to a product: the
// first one in declaration order wins, promotions never stack.
func firstMatchingPromotion(active []Intervention, p Product) *Promotion {
	for _, iv := range active {
		if iv.Kind != enums.InterventionKindPromotion || iv.Promotion == nil {
			continue
		}
		if iv.Promotion.Eligibility.Matches(p) {
			return iv.Promotion
		}
	}
	return nil
}

// demandEffect is the multiplicative effect of the active interventions on
// expected order volume. Price increases deliberately stay unclamped to match
// the historical calibration, so a very large increase can push the factor to
// zero or below; callers floor the final order count at 1 instead.
func demandEffect(active []Intervention) float64 {
	effect := 1.0
	for _, iv := range active {
		switch iv.Kind {
		case enums.InterventionKindPromotion:
			effect *= 1.10
		case enums.InterventionKindPriceChange:
			if iv.PriceChange == nil {
				continue
			}
			value := iv.PriceChange.Value
			if value < 0 {
				effect *= 1 + (-value/100)*0.5
			} else {
				effect *= 1 - (value/100)*0.3
			}
		}
	}
	return effect
}
