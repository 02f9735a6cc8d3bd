package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// CatalogProduct represents one sellable listing inside a venue's catalog
// snapshot. Snapshots are immutable once written; the simulator only reads
// the latest one per venue.
type CatalogProduct struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID    string                `gorm:"column:venue_id;not null;index:idx_catalog_products_venue"`
	ProductKey string                `gorm:"column:product_key;not null"`
	VariantKey *string               `gorm:"column:variant_key"`
	BrandKey   *string               `gorm:"column:brand_key"`
	Category   enums.ProductCategory `gorm:"column:category;type:category;not null"`
	Tags       pq.StringArray        `gorm:"column:tags;type:text[]"`
	Price      float64               `gorm:"column:price;type:numeric(12,2);not null"`
	Cost       *float64              `gorm:"column:cost;type:numeric(12,2)"`
	InStock    bool                  `gorm:"column:in_stock;not null;default:true"`
	SnapshotAt time.Time             `gorm:"column:snapshot_at;not null;index:idx_catalog_products_snapshot"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (CatalogProduct) TableName() string { return "catalog_products" }
