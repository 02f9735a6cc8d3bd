package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestDateWindowInclusiveBounds(t *testing.T) {
	t.Parallel()
	window := DateWindow{
		Start: datePtr(2026, time.March, 10),
		End:   datePtr(2026, time.March, 20),
	}

	if !window.Contains(time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)) {
		t.Fatal("start date should be inclusive")
	}
	if !window.Contains(time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("end date should be inclusive")
	}
	if window.Contains(time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("date before start should be excluded")
	}
	if window.Contains(time.Date(2026, time.March, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("date after end should be excluded")
	}

	unbounded := DateWindow{}
	if !unbounded.Contains(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("empty window should match any date")
	}
}

func TestPriceChangeApply(t *testing.T) {
	t.Parallel()
	half := PriceChange{Mode: enums.PriceChangeModePercent, Value: -50}
	if got := half.Apply(40); got != 20 {
		t.Fatalf("-50%% of 40 should be 20, got %v", got)
	}

	up := PriceChange{Mode: enums.PriceChangeModePercent, Value: 10}
	if got := up.Apply(40); got != 44 {
		t.Fatalf("+10%% of 40 should be 44, got %v", got)
	}

	abs := PriceChange{Mode: enums.PriceChangeModeAbsolute, Value: -5}
	if got := abs.Apply(40); got != 35 {
		t.Fatalf("absolute -5 on 40 should be 35, got %v", got)
	}

	floor := 30.0
	floored := PriceChange{Mode: enums.PriceChangeModePercent, Value: -90, FloorPrice: &floor}
	if got := floored.Apply(40); got != 30 {
		t.Fatalf("floor price should clamp to 30, got %v", got)
	}

	crash := PriceChange{Mode: enums.PriceChangeModeAbsolute, Value: -100}
	if got := crash.Apply(40); got != 0 {
		t.Fatalf("default floor should clamp to 0, got %v", got)
	}
}

func TestPromotionDiscount(t *testing.T) {
	t.Parallel()
	pct := Promotion{ID: "spring", Kind: enums.PromoKindPercentOff, Value: 10}
	if got := pct.Discount(50); got != 5 {
		t.Fatalf("10%% off 50 should be 5, got %v", got)
	}
	if got := pct.Tag(); got != "percent_off:spring" {
		t.Fatalf("unexpected promo tag %q", got)
	}

	flat := Promotion{ID: "flash", Kind: enums.PromoKindAmountOff, Value: 7}
	if got := flat.Discount(50); got != 7 {
		t.Fatalf("$7 off should be 7, got %v", got)
	}
}

func TestFirstMatchingWinsInDeclarationOrder(t *testing.T) {
	t.Parallel()
	vape := Product{ID: "p1", BrandID: "brand-a", Category: enums.ProductCategoryVape, Price: 40, InStock: true}

	interventions := []Intervention{
		NewPriceChange(PriceChange{
			ID:    "first",
			Scope: Scope{Category: enums.ProductCategoryVape},
			Mode:  enums.PriceChangeModePercent,
			Value: -10,
		}),
		NewPriceChange(PriceChange{
			ID:    "second",
			Scope: Scope{BrandID: "brand-a"},
			Mode:  enums.PriceChangeModePercent,
			Value: -50,
		}),
		NewPromotion(Promotion{
			ID:          "promo-one",
			Eligibility: Eligibility{Categories: []enums.ProductCategory{enums.ProductCategoryVape}},
			Kind:        enums.PromoKindPercentOff,
			Value:       5,
		}),
		NewPromotion(Promotion{
			ID:          "promo-two",
			Eligibility: Eligibility{},
			Kind:        enums.PromoKindPercentOff,
			Value:       50,
		}),
	}

	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	active := activeInterventions(interventions, date)

	pc := firstMatchingPriceChange(active, vape)
	if pc == nil || pc.ID != "first" {
		t.Fatalf("expected first declared price change to win, got %+v", pc)
	}

	promo := firstMatchingPromotion(active, vape)
	if promo == nil || promo.ID != "promo-one" {
		t.Fatalf("expected first declared promotion to win, got %+v", promo)
	}
}

func TestActiveInterventionsFiltersByDate(t *testing.T) {
	t.Parallel()
	interventions := []Intervention{
		NewPromotion(Promotion{
			ID:     "expired",
			Kind:   enums.PromoKindPercentOff,
			Value:  10,
			Window: DateWindow{End: datePtr(2026, time.January, 31)},
		}),
		NewPromotion(Promotion{
			ID:    "evergreen",
			Kind:  enums.PromoKindPercentOff,
			Value: 5,
		}),
	}

	active := activeInterventions(interventions, time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC))
	if len(active) != 1 {
		t.Fatalf("expected 1 active intervention, got %d", len(active))
	}
	if active[0].Promotion.ID != "evergreen" {
		t.Fatalf("expected evergreen promo, got %s", active[0].Promotion.ID)
	}
}

func TestDemandEffect(t *testing.T) {
	t.Parallel()
	promo := NewPromotion(Promotion{ID: "p", Kind: enums.PromoKindPercentOff, Value: 10})
	cut := NewPriceChange(PriceChange{ID: "cut", Mode: enums.PriceChangeModePercent, Value: -20})
	hike := NewPriceChange(PriceChange{ID: "hike", Mode: enums.PriceChangeModePercent, Value: 20})

	if got := demandEffect([]Intervention{promo}); math.Abs(got-1.10) > 1e-12 {
		t.Fatalf("promotion should lift demand by 1.10, got %v", got)
	}
	if got := demandEffect([]Intervention{cut}); math.Abs(got-1.10) > 1e-12 {
		t.Fatalf("-20%% cut should lift demand by 1+0.2*0.5, got %v", got)
	}
	if got := demandEffect([]Intervention{hike}); math.Abs(got-0.94) > 1e-12 {
		t.Fatalf("+20%% hike should dampen demand to 1-0.2*0.3, got %v", got)
	}
	if got := demandEffect(nil); got != 1 {
		t.Fatalf("no interventions should leave demand unchanged, got %v", got)
	}
}
