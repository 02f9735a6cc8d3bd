package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

const (
	// defaultAvgOrdersPerDay is used when history is missing or empty.
	defaultAvgOrdersPerDay = 50

	// neutralCompetitorPressure applies when no competitor snapshots exist.
	neutralCompetitorPressure = 0.3

	minBasketSize = 1
	maxBasketSize = 5

	productWeightFloor      = 0.01
	unknownCategoryAffinity = 0.1
)

// Why-tags recorded in order signals.
const (
	whyMarketPressureHigh = "market_pressure_high"
	whyMarketPressureLow  = "market_pressure_low"
	whyPriceChangeApplied = "price_change_applied"
	whyDealSeekerSegment  = "deal_seeker_segment"
	whyVIPCustomer        = "vip_customer"
)

// SimulateDay produces the synthetic orders and summary for one calendar day.
// It is a pure function: the cohort and catalog are only read, and the random
// source is constructed from seed+dayIndex so every day of a run is
// independently reproducible. Degenerate inputs (empty catalog, missing
// history, no stock) degrade to fallbacks rather than errors, because callers
// always need a well-formed daily result.
func SimulateDay(inputs Inputs, customers []SyntheticCustomer, seed int64, cfg DayConfig) DayResult {
	r := NewRand(seed + int64(cfg.DayIndex))

	active := activeInterventions(inputs.Scenario.Interventions, cfg.Date)
	orderCount := drawOrderCount(r, inputs, active, cfg.Date)

	inStock := make([]Product, 0, len(inputs.Catalog))
	for _, p := range inputs.Catalog {
		if p.InStock {
			inStock = append(inStock, p)
		}
	}

	customerOptions := make([]Weighted[int], 0, len(customers))
	for i, c := range customers {
		customerOptions = append(customerOptions, Weighted[int]{Value: i, Weight: c.VisitFrequency})
	}

	orders := make([]Order, 0, orderCount)
	for k := 0; k < orderCount; k++ {
		orders = append(orders, buildOrder(r, inputs, customers, customerOptions, inStock, active, cfg, k))
	}

	return DayResult{
		Orders:  orders,
		Summary: summarizeDay(cfg.Date, orders),
	}
}

// drawOrderCount models expected demand (history x seasonality x intervention
// effect) with a sqrt-width jitter approximating Poisson variance, floored at
// one order per day.
func drawOrderCount(r *Rand, inputs Inputs, active []Intervention, date time.Time) int {
	baseOrders := inputs.History.AvgOrdersPerDay
	if baseOrders <= 0 {
		baseOrders = defaultAvgOrdersPerDay
	}

	season := seasonalityFactor(date, inputs.Scenario.Assumptions.SeasonalityIntensity)
	expected := math.Round(baseOrders * season * demandEffect(active))

	spread := math.Sqrt(math.Max(expected, 0))
	actual := math.Round(expected + r.NextRange(-spread, spread))
	if actual < 1 {
		return 1
	}
	return int(actual)
}

func buildOrder(
	r *Rand,
	inputs Inputs,
	customers []SyntheticCustomer,
	customerOptions []Weighted[int],
	inStock []Product,
	active []Intervention,
	cfg DayConfig,
	orderIndex int,
) Order {
	var customer SyntheticCustomer
	if idx, ok := WeightedChoice(r, customerOptions); ok {
		customer = customers[idx]
	}

	basketSize := r.NextInt(minBasketSize, maxBasketSize)

	signals := OrderSignals{
		PromoIDsApplied: []string{},
		Substitutions:   []string{},
		Why:             []string{},
	}

	pressure := competitorPressure(inputs, customer.PriceSensitivity)
	signals.CompetitorPressure = pressure
	if pressure > 0.5 {
		signals.Why = append(signals.Why, whyMarketPressureHigh)
	} else if pressure < neutralCompetitorPressure {
		signals.Why = append(signals.Why, whyMarketPressureLow)
	}

	lines := make([]LineItem, 0, basketSize)
	priceChanged := false
	for slot := 0; slot < basketSize; slot++ {
		product, ok := pickProduct(r, inStock, customer, pressure)
		if !ok {
			continue
		}

		price := product.Price
		if pc := firstMatchingPriceChange(active, product); pc != nil {
			price = pc.Apply(price)
			priceChanged = true
		}

		discount := 0.0
		if promo := firstMatchingPromotion(active, product); promo != nil {
			discount = promo.Discount(price)
			if tag := promo.Tag(); !containsValue(signals.PromoIDsApplied, tag) {
				signals.PromoIDsApplied = append(signals.PromoIDsApplied, tag)
			}
		}

		qty := r.NextInt(1, 2)
		lines = append(lines, makeLine(product, price, discount, qty))
	}
	if priceChanged {
		signals.Why = append(signals.Why, whyPriceChangeApplied)
	}

	// Every order carries at least one line item: when the catalog is empty of
	// stock, fall back to an arbitrary product at list price.
	if len(lines) == 0 {
		if product, ok := Choice(r, inputs.Catalog); ok {
			lines = append(lines, makeLine(product, product.Price, 0, 1))
		}
	}

	switch customer.Segment {
	case enums.CustomerSegmentDealSeeker:
		signals.Why = append(signals.Why, whyDealSeekerSegment)
	case enums.CustomerSegmentVIP:
		signals.Why = append(signals.Why, whyVIPCustomer)
	}

	return Order{
		ID:          orderID(r, cfg.Date, orderIndex),
		Timestamp:   orderTimestamp(r, cfg.Date),
		ProfileType: inputs.ProfileType,
		VenueID:     inputs.VenueID,
		Customer: CustomerSnapshot{
			CustomerID:       customer.ID,
			Segment:          customer.Segment,
			BudgetBand:       customer.BudgetBand,
			PriceSensitivity: customer.PriceSensitivity,
		},
		LineItems: lines,
		Totals:    totalLines(lines),
		Signals:   signals,
	}
}

// competitorPressure scores how hard the surrounding market pulls on this
// customer, in [0, 1]. Without snapshots the market is assumed neutral.
func competitorPressure(inputs Inputs, sensitivity enums.PriceSensitivity) float64 {
	if len(inputs.Competitors) == 0 {
		return neutralCompetitorPressure
	}

	total := 0
	for _, snapshot := range inputs.Competitors {
		total += snapshot.ProductCount
	}
	avgCount := float64(total) / float64(len(inputs.Competitors))

	multiplier := 1.0
	switch sensitivity {
	case enums.PriceSensitivityHigh:
		multiplier = 1.3
	case enums.PriceSensitivityLow:
		multiplier = 0.7
	}

	return math.Min(1, avgCount/10) * multiplier * inputs.Scenario.Assumptions.CompetitorPressureSensitivity
}

// pickProduct selects a basket slot by weighted choice over in-stock products.
// Weights start from the customer's category affinity, get boosted by brand
// affinity, and get penalized for price sensitivity and market pressure, with
// a floor keeping every weight positive.
func pickProduct(r *Rand, inStock []Product, customer SyntheticCustomer, pressure float64) (Product, bool) {
	if len(inStock) == 0 {
		return Product{}, false
	}

	options := make([]Weighted[Product], 0, len(inStock))
	for _, p := range inStock {
		weight, ok := customer.CategoryAffinity[p.Category]
		if !ok {
			weight = unknownCategoryAffinity
		}
		if p.BrandID != "" {
			if brandAffinity, ok := customer.BrandAffinity[p.BrandID]; ok {
				weight *= 1 + brandAffinity
			}
		}
		if customer.PriceSensitivity == enums.PriceSensitivityHigh && p.Price > 50 {
			weight *= 0.5
		}
		if customer.PriceSensitivity == enums.PriceSensitivityLow && p.Price < 30 {
			weight *= 0.8
		}
		if pressure > 0.6 && p.Price > 40 {
			weight *= 0.7
		}
		if weight < productWeightFloor {
			weight = productWeightFloor
		}
		options = append(options, Weighted[Product]{Value: p, Weight: weight})
	}
	return WeightedChoice(r, options)
}

func makeLine(product Product, unitPrice, discount float64, qty int) LineItem {
	line := LineItem{
		ProductID:  product.ID,
		VariantID:  product.VariantID,
		BrandID:    product.BrandID,
		Category:   product.Category,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		Discount:   discount,
		NetRevenue: (unitPrice - discount) * float64(qty),
	}
	if product.Cost != nil {
		cost := *product.Cost * float64(qty)
		margin := line.NetRevenue - cost
		line.Cost = &cost
		line.Margin = &margin
	}
	return line
}

// totalLines sums the order lines; the order-level margin is present only
// when every line carries one.
func totalLines(lines []LineItem) OrderTotals {
	totals := OrderTotals{}
	margin := 0.0
	marginComplete := len(lines) > 0
	for _, line := range lines {
		totals.NetRevenue += line.NetRevenue
		totals.Discount += line.Discount * float64(line.Quantity)
		totals.Units += line.Quantity
		if line.Margin == nil {
			marginComplete = false
		} else {
			margin += *line.Margin
		}
	}
	if marginComplete {
		totals.GrossMargin = &margin
	}
	return totals
}

func orderID(r *Rand, date time.Time, orderIndex int) string {
	return fmt.Sprintf("ord_%s_%04x", date.Format("20060102"), r.ShortHash(orderIndex))
}

// orderTimestamp places the order within business hours on the simulated day.
func orderTimestamp(r *Rand, date time.Time) time.Time {
	hour := r.NextInt(9, 20)
	minute := r.NextInt(0, 59)
	second := r.NextInt(0, 59)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, time.UTC)
}

// summarizeDay aggregates the day's orders. The gross margin is reported only
// when every order has a complete margin, since a partial average would be
// misleading for forecasting.
func summarizeDay(date time.Time, orders []Order) DaySummary {
	summary := DaySummary{Date: dateOnly(date), Orders: len(orders)}

	margin := 0.0
	marginComplete := len(orders) > 0
	repeat := 0
	for _, order := range orders {
		summary.NetRevenue += order.Totals.NetRevenue
		summary.DiscountTotal += order.Totals.Discount
		summary.Units += order.Totals.Units
		if order.Totals.GrossMargin == nil {
			marginComplete = false
		} else {
			margin += *order.Totals.GrossMargin
		}
		if order.Customer.Segment.IsRepeat() {
			repeat++
		}
	}

	if marginComplete {
		summary.GrossMargin = &margin
	}
	if len(orders) > 0 {
		summary.AvgOrderValue = summary.NetRevenue / float64(len(orders))
		summary.RepeatRate = float64(repeat) / float64(len(orders))
	}
	return summary
}
