package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// CompetitorSnapshot represents the most recent per-category listing counts
// observed across competing venues.
type CompetitorSnapshot struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID      string                `gorm:"column:venue_id;not null;uniqueIndex:uq_competitor_snapshots,priority:1"`
	Category     enums.ProductCategory `gorm:"column:category;type:category;not null;uniqueIndex:uq_competitor_snapshots,priority:2"`
	ProductCount int                   `gorm:"column:product_count;not null;default:0"`
	CapturedAt   time.Time             `gorm:"column:captured_at;not null"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (CompetitorSnapshot) TableName() string { return "competitor_snapshots" }
