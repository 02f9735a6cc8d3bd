package simulation

import "time"

// dayOfWeekFactors captures the weekend-heavy demand shape observed in
// marketplace order history.
var dayOfWeekFactors = map[time.Weekday]float64{
	time.Monday:    0.90,
	time.Tuesday:   0.85,
	time.Wednesday: 0.95,
	time.Thursday:  1.00,
	time.Friday:    1.20,
	time.Saturday:  1.30,
	time.Sunday:    1.10,
}

var monthFactors = map[time.Month]float64{
	time.January:   0.90,
	time.February:  0.85,
	time.March:     0.95,
	time.April:     1.10,
	time.May:       1.00,
	time.June:      1.00,
	time.July:      1.05,
	time.August:    1.00,
	time.September: 0.95,
	time.October:   1.00,
	time.November:  1.05,
	time.December:  1.15,
}

// holidayFactors keys on MM-DD.
var holidayFactors = map[string]float64{
	"01-01": 0.70,
	"04-20": 1.80,
	"07-04": 1.20,
	"11-29": 1.40,
	"12-31": 1.30,
}

// seasonalityFactor multiplies the blended day-of-week, month, and holiday
// factors. Each raw factor is pulled toward 1 by the configured intensity, so
// intensity 0 disables seasonality entirely and 1 applies it in full.
func seasonalityFactor(date time.Time, intensity float64) float64 {
	dow := blendFactor(dayOfWeekFactors[date.Weekday()], intensity)
	month := blendFactor(monthFactors[date.Month()], intensity)

	holiday := 1.0
	if raw, ok := holidayFactors[date.Format("01-02")]; ok {
		holiday = blendFactor(raw, intensity)
	}
	return dow * month * holiday
}

func blendFactor(raw, intensity float64) float64 {
	if raw == 0 {
		raw = 1
	}
	return 1 + (raw-1)*intensity
}
