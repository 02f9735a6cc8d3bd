package simulation

import (
	"time"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// Product is a sellable catalog item supplied by the marketplace backend.
// The engine never mutates catalog entries.
type Product struct {
	ID        string                `json:"id"`
	VariantID string                `json:"variant_id,omitempty"`
	BrandID   string                `json:"brand_id,omitempty"`
	Category  enums.ProductCategory `json:"category"`
	Price     float64               `json:"price"`
	Cost      *float64              `json:"cost,omitempty"`
	InStock   bool                  `json:"in_stock"`
}

// CompetitorSnapshot captures how crowded a category is in the surrounding market.
type CompetitorSnapshot struct {
	Category     enums.ProductCategory `json:"category"`
	ProductCount int                   `json:"product_count"`
}

// HistoricalStats carries the aggregate history the engine calibrates against.
type HistoricalStats struct {
	AvgOrdersPerDay float64                           `json:"avg_orders_per_day"`
	SegmentMix      map[enums.CustomerSegment]float64 `json:"segment_mix,omitempty"`
	BudgetMix       map[enums.BudgetBand]float64      `json:"budget_mix,omitempty"`
	CategoryMix     map[enums.ProductCategory]float64 `json:"category_mix,omitempty"`
}

// Assumptions are the scenario-level scalar knobs.
type Assumptions struct {
	SeasonalityIntensity          float64 `json:"seasonality_intensity"`
	CompetitorPressureSensitivity float64 `json:"competitor_pressure_sensitivity"`
}

// Scenario is a named set of interventions plus assumptions, immutable for a run.
type Scenario struct {
	Name          string         `json:"name"`
	HorizonDays   int            `json:"horizon_days"`
	Interventions []Intervention `json:"interventions,omitempty"`
	Assumptions   Assumptions    `json:"assumptions"`
}

// Inputs bundles everything the generators read. All fields are treated as
// immutable for the lifetime of a run.
type Inputs struct {
	Catalog     []Product            `json:"catalog"`
	History     HistoricalStats      `json:"history"`
	Scenario    Scenario             `json:"scenario"`
	Competitors []CompetitorSnapshot `json:"competitors,omitempty"`
	VenueID     string               `json:"venue_id,omitempty"`
	ProfileType string               `json:"profile_type,omitempty"`
}

// PopulationConfig controls cohort generation.
type PopulationConfig struct {
	Size       int                               `json:"size"`
	SegmentMix map[enums.CustomerSegment]float64 `json:"segment_mix,omitempty"`
	BudgetMix  map[enums.BudgetBand]float64      `json:"budget_mix,omitempty"`
}

// SyntheticCustomer is one member of the generated cohort. Customers are
// created once per run and are read-only afterwards.
type SyntheticCustomer struct {
	ID               string                            `json:"id"`
	Segment          enums.CustomerSegment             `json:"segment"`
	BudgetBand       enums.BudgetBand                  `json:"budget_band"`
	PriceSensitivity enums.PriceSensitivity            `json:"price_sensitivity"`
	CategoryAffinity map[enums.ProductCategory]float64 `json:"category_affinity"`
	BrandAffinity    map[string]float64                `json:"brand_affinity"`
	VisitFrequency   float64                           `json:"visit_frequency"`
}

// CustomerSnapshot is the order-time copy of the customer fields reporting needs.
type CustomerSnapshot struct {
	CustomerID       string                 `json:"customer_id"`
	Segment          enums.CustomerSegment  `json:"segment"`
	BudgetBand       enums.BudgetBand       `json:"budget_band"`
	PriceSensitivity enums.PriceSensitivity `json:"price_sensitivity"`
}

// LineItem is a single product position within a synthetic order.
type LineItem struct {
	ProductID  string                `json:"product_id"`
	VariantID  string                `json:"variant_id,omitempty"`
	BrandID    string                `json:"brand_id,omitempty"`
	Category   enums.ProductCategory `json:"category"`
	Quantity   int                   `json:"quantity"`
	UnitPrice  float64               `json:"unit_price"`
	Discount   float64               `json:"discount"`
	NetRevenue float64               `json:"net_revenue"`
	Cost       *float64              `json:"cost,omitempty"`
	Margin     *float64              `json:"margin,omitempty"`
}

// OrderTotals aggregates the line items of one order.
type OrderTotals struct {
	NetRevenue  float64  `json:"net_revenue"`
	Discount    float64  `json:"discount"`
	Units       int      `json:"units"`
	GrossMargin *float64 `json:"gross_margin,omitempty"`
}

// OrderSignals records the modeled context behind an order.
type OrderSignals struct {
	PromoIDsApplied    []string `json:"promo_ids_applied,omitempty"`
	CompetitorPressure float64  `json:"competitor_pressure"`
	Substitutions      []string `json:"substitutions,omitempty"`
	Why                []string `json:"why,omitempty"`
}

// Order is one synthetic order produced by the day simulator.
type Order struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	ProfileType string           `json:"profile_type,omitempty"`
	VenueID     string           `json:"venue_id,omitempty"`
	Customer    CustomerSnapshot `json:"customer"`
	LineItems   []LineItem       `json:"line_items"`
	Totals      OrderTotals      `json:"totals"`
	Signals     OrderSignals     `json:"signals"`
}

// DaySummary aggregates one simulated calendar day.
type DaySummary struct {
	Date          time.Time `json:"date"`
	Orders        int       `json:"orders"`
	Units         int       `json:"units"`
	NetRevenue    float64   `json:"net_revenue"`
	DiscountTotal float64   `json:"discount_total"`
	GrossMargin   *float64  `json:"gross_margin,omitempty"`
	AvgOrderValue float64   `json:"avg_order_value"`
	RepeatRate    float64   `json:"repeat_rate"`
}

// DayConfig identifies which day of which run is being simulated.
type DayConfig struct {
	Date     time.Time `json:"date"`
	RunID    string    `json:"run_id"`
	DayIndex int       `json:"day_index"`
}

// DayResult is the full output of one simulated day.
type DayResult struct {
	Orders  []Order    `json:"orders"`
	Summary DaySummary `json:"summary"`
}
