package simulation

import (
	"sort"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// segmentOrder fixes the draw order for segment mixes so that map-valued
// configuration cannot perturb the random sequence.
var segmentOrder = []enums.CustomerSegment{
	enums.CustomerSegmentNew,
	enums.CustomerSegmentReturning,
	enums.CustomerSegmentVIP,
	enums.CustomerSegmentDealSeeker,
	enums.CustomerSegmentConnoisseur,
}

var budgetOrder = []enums.BudgetBand{
	enums.BudgetBandLow,
	enums.BudgetBandMid,
	enums.BudgetBandHigh,
}

var sensitivityOrder = []enums.PriceSensitivity{
	enums.PriceSensitivityLow,
	enums.PriceSensitivityMid,
	enums.PriceSensitivityHigh,
}

// defaultSegmentMix is used when neither the population config nor history
// supplies one.
var defaultSegmentMix = map[enums.CustomerSegment]float64{
	enums.CustomerSegmentNew:         0.25,
	enums.CustomerSegmentReturning:   0.35,
	enums.CustomerSegmentVIP:         0.10,
	enums.CustomerSegmentDealSeeker:  0.20,
	enums.CustomerSegmentConnoisseur: 0.10,
}

var defaultBudgetMix = map[enums.BudgetBand]float64{
	enums.BudgetBandLow:  0.30,
	enums.BudgetBandMid:  0.50,
	enums.BudgetBandHigh: 0.20,
}

// sensitivityBySegment conditions price sensitivity on the drawn segment.
// Deal seekers skew hard toward high sensitivity, connoisseurs are the
// symmetric inverse, VIPs barely notice price, and new/returning customers
// sit near an even split.
var sensitivityBySegment = map[enums.CustomerSegment]map[enums.PriceSensitivity]float64{
	enums.CustomerSegmentDealSeeker: {
		enums.PriceSensitivityLow:  0.05,
		enums.PriceSensitivityMid:  0.25,
		enums.PriceSensitivityHigh: 0.70,
	},
	enums.CustomerSegmentConnoisseur: {
		enums.PriceSensitivityLow:  0.70,
		enums.PriceSensitivityMid:  0.25,
		enums.PriceSensitivityHigh: 0.05,
	},
	enums.CustomerSegmentVIP: {
		enums.PriceSensitivityLow:  0.60,
		enums.PriceSensitivityMid:  0.30,
		enums.PriceSensitivityHigh: 0.10,
	},
	enums.CustomerSegmentNew: {
		enums.PriceSensitivityLow:  0.30,
		enums.PriceSensitivityMid:  0.40,
		enums.PriceSensitivityHigh: 0.30,
	},
	enums.CustomerSegmentReturning: {
		enums.PriceSensitivityLow:  0.35,
		enums.PriceSensitivityMid:  0.40,
		enums.PriceSensitivityHigh: 0.25,
	},
}

// visitFrequencyBase is the per-segment base visit rate before jitter.
var visitFrequencyBase = map[enums.CustomerSegment]float64{
	enums.CustomerSegmentVIP:         4,
	enums.CustomerSegmentDealSeeker:  3,
	enums.CustomerSegmentReturning:   2.5,
	enums.CustomerSegmentConnoisseur: 2,
	enums.CustomerSegmentNew:         1,
}

// GeneratePopulation builds a fixed-size synthetic cohort. It is a pure
// function of its arguments: calling it twice with the same inputs, seed, and
// config yields element-wise equal cohorts, customer ids included.
func GeneratePopulation(inputs Inputs, seed int64, cfg PopulationConfig) []SyntheticCustomer {
	r := NewRand(seed)

	categories, categoryWeights := categoryBaseWeights(inputs.Catalog)
	brands, brandWeights := brandBaseWeights(inputs.Catalog)

	segmentMix := mixOrDefault(cfg.SegmentMix, inputs.History.SegmentMix, defaultSegmentMix)
	budgetMix := mixOrDefault(cfg.BudgetMix, inputs.History.BudgetMix, defaultBudgetMix)

	customers := make([]SyntheticCustomer, 0, cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		segment := drawSegment(r, segmentMix)
		budget := drawBudget(r, budgetMix)
		sensitivity := drawSensitivity(r, segment)

		customer := SyntheticCustomer{
			ID:               r.GenerateID("cust", i),
			Segment:          segment,
			BudgetBand:       budget,
			PriceSensitivity: sensitivity,
			CategoryAffinity: jitteredAffinity(r, categories, categoryWeights, 0.5, 1.5),
			BrandAffinity:    jitteredAffinity(r, brands, brandWeights, 0.3, 2.0),
			VisitFrequency:   visitFrequencyBase[segment] * r.NextRange(0.7, 1.3),
		}
		customers = append(customers, customer)
	}
	return customers
}

// categoryBaseWeights derives the share of catalog products per category,
// returned alongside a sorted key list so downstream draws are order-stable.
func categoryBaseWeights(catalog []Product) ([]enums.ProductCategory, map[enums.ProductCategory]float64) {
	counts := make(map[enums.ProductCategory]int)
	for _, p := range catalog {
		counts[p.Category]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	categories := make([]enums.ProductCategory, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	weights := make(map[enums.ProductCategory]float64, len(counts))
	total := float64(len(catalog))
	for category, count := range counts {
		weights[category] = float64(count) / total
	}
	return categories, weights
}

// brandBaseWeights mirrors categoryBaseWeights over non-empty brand ids.
func brandBaseWeights(catalog []Product) ([]string, map[string]float64) {
	counts := make(map[string]int)
	branded := 0
	for _, p := range catalog {
		if p.BrandID == "" {
			continue
		}
		counts[p.BrandID]++
		branded++
	}
	if branded == 0 {
		return nil, nil
	}

	brands := make([]string, 0, len(counts))
	for brand := range counts {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	weights := make(map[string]float64, len(counts))
	for brand, count := range counts {
		weights[brand] = float64(count) / float64(branded)
	}
	return brands, weights
}

// jitteredAffinity applies an independent multiplicative jitter to each base
// weight and renormalizes the result to sum to 1. An empty key list yields an
// empty map rather than dividing by zero.
func jitteredAffinity[K comparable](r *Rand, keys []K, base map[K]float64, jitterMin, jitterMax float64) map[K]float64 {
	affinity := make(map[K]float64, len(keys))
	if len(keys) == 0 {
		return affinity
	}

	total := 0.0
	for _, key := range keys {
		weight := base[key] * r.NextRange(jitterMin, jitterMax)
		affinity[key] = weight
		total += weight
	}
	if total <= 0 {
		return affinity
	}
	for key, weight := range affinity {
		affinity[key] = weight / total
	}
	return affinity
}

func mixOrDefault[K comparable](override, historical, fallback map[K]float64) map[K]float64 {
	if len(override) > 0 {
		return override
	}
	if len(historical) > 0 {
		return historical
	}
	return fallback
}

func drawSegment(r *Rand, mix map[enums.CustomerSegment]float64) enums.CustomerSegment {
	options := make([]Weighted[enums.CustomerSegment], 0, len(segmentOrder))
	for _, segment := range segmentOrder {
		if weight, ok := mix[segment]; ok {
			options = append(options, Weighted[enums.CustomerSegment]{Value: segment, Weight: weight})
		}
	}
	segment, ok := WeightedChoice(r, options)
	if !ok {
		return enums.CustomerSegmentNew
	}
	return segment
}

func drawBudget(r *Rand, mix map[enums.BudgetBand]float64) enums.BudgetBand {
	options := make([]Weighted[enums.BudgetBand], 0, len(budgetOrder))
	for _, band := range budgetOrder {
		if weight, ok := mix[band]; ok {
			options = append(options, Weighted[enums.BudgetBand]{Value: band, Weight: weight})
		}
	}
	band, ok := WeightedChoice(r, options)
	if !ok {
		return enums.BudgetBandMid
	}
	return band
}

func drawSensitivity(r *Rand, segment enums.CustomerSegment) enums.PriceSensitivity {
	table, ok := sensitivityBySegment[segment]
	if !ok {
		table = sensitivityBySegment[enums.CustomerSegmentNew]
	}
	options := make([]Weighted[enums.PriceSensitivity], 0, len(sensitivityOrder))
	for _, sensitivity := range sensitivityOrder {
		options = append(options, Weighted[enums.PriceSensitivity]{Value: sensitivity, Weight: table[sensitivity]})
	}
	sensitivity, ok := WeightedChoice(r, options)
	if !ok {
		return enums.PriceSensitivityMid
	}
	return sensitivity
}
