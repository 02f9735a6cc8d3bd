package enums

import "testing"

func TestParseCustomerSegment(t *testing.T) {
	seg, err := ParseCustomerSegment("deal_seeker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg != CustomerSegmentDealSeeker {
		t.Fatalf("expected deal_seeker, got %s", seg)
	}
	if _, err := ParseCustomerSegment("whale"); err == nil {
		t.Fatal("expected error for unknown segment")
	}
}

func TestCustomerSegmentIsRepeat(t *testing.T) {
	cases := map[CustomerSegment]bool{
		CustomerSegmentReturning:   true,
		CustomerSegmentVIP:         true,
		CustomerSegmentNew:         false,
		CustomerSegmentDealSeeker:  false,
		CustomerSegmentConnoisseur: false,
	}
	for seg, want := range cases {
		if got := seg.IsRepeat(); got != want {
			t.Fatalf("IsRepeat(%s) = %v, want %v", seg, got, want)
		}
	}
}

func TestInterventionKindValidity(t *testing.T) {
	if !InterventionKindPriceChange.IsValid() {
		t.Fatal("price_change should be valid")
	}
	if InterventionKind("bundle").IsValid() {
		t.Fatal("unknown kind should be invalid")
	}
}

func TestParsePromoKind(t *testing.T) {
	kind, err := ParsePromoKind("amount_off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != PromoKindAmountOff {
		t.Fatalf("expected amount_off, got %s", kind)
	}
}

func TestParseBudgetBandAndSensitivity(t *testing.T) {
	if _, err := ParseBudgetBand("mid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParsePriceSensitivity("extreme"); err == nil {
		t.Fatal("expected error for unknown sensitivity")
	}
}
