package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// HistoricalCategoryShare represents one category's share of a venue's
// historical order volume.
type HistoricalCategoryShare struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID   string                `gorm:"column:venue_id;not null;uniqueIndex:uq_historical_category_shares,priority:1"`
	Category  enums.ProductCategory `gorm:"column:category;type:category;not null;uniqueIndex:uq_historical_category_shares,priority:2"`
	Share     float64               `gorm:"column:share;not null;default:0"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (HistoricalCategoryShare) TableName() string { return "historical_category_shares" }
