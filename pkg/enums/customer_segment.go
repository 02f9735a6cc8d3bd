package enums

import "fmt"

// CustomerSegment represents the behavioral segments assigned to synthetic customers.
type CustomerSegment string

const (
	CustomerSegmentNew         CustomerSegment = "new"
	CustomerSegmentReturning   CustomerSegment = "returning"
	CustomerSegmentVIP         CustomerSegment = "vip"
	CustomerSegmentDealSeeker  CustomerSegment = "deal_seeker"
	CustomerSegmentConnoisseur CustomerSegment = "connoisseur"
)

var validCustomerSegments = []CustomerSegment{
	CustomerSegmentNew,
	CustomerSegmentReturning,
	CustomerSegmentVIP,
	CustomerSegmentDealSeeker,
	CustomerSegmentConnoisseur,
}

// String implements fmt.Stringer.
func (s CustomerSegment) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CustomerSegment.
func (s CustomerSegment) IsValid() bool {
	for _, candidate := range validCustomerSegments {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsRepeat reports whether the segment counts toward the repeat-rate estimate.
func (s CustomerSegment) IsRepeat() bool {
	return s == CustomerSegmentReturning || s == CustomerSegmentVIP
}

// ParseCustomerSegment converts raw input into a CustomerSegment.
func ParseCustomerSegment(value string) (CustomerSegment, error) {
	for _, candidate := range validCustomerSegments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer segment %q", value)
}
