package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalStat represents the observed daily-order baseline and cohort mix
// shares for a single venue. One row per venue; shares are stored flat so the
// row stays queryable without JSON operators.
type HistoricalStat struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID            string    `gorm:"column:venue_id;not null;uniqueIndex:uq_historical_stats_venue"`
	AvgOrdersPerDay    float64   `gorm:"column:avg_orders_per_day;not null;default:0"`
	SegmentNew         float64   `gorm:"column:segment_new;not null;default:0"`
	SegmentReturning   float64   `gorm:"column:segment_returning;not null;default:0"`
	SegmentVIP         float64   `gorm:"column:segment_vip;not null;default:0"`
	SegmentDealSeeker  float64   `gorm:"column:segment_deal_seeker;not null;default:0"`
	SegmentConnoisseur float64   `gorm:"column:segment_connoisseur;not null;default:0"`
	BudgetLow          float64   `gorm:"column:budget_low;not null;default:0"`
	BudgetMid          float64   `gorm:"column:budget_mid;not null;default:0"`
	BudgetHigh         float64   `gorm:"column:budget_high;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (HistoricalStat) TableName() string { return "historical_stats" }
