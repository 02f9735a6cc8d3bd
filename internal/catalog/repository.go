package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/db/models"
	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
)

// SnapshotReader exposes the read surface the run orchestrator needs.
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context, venueID string) ([]simulation.Product, error)
	HistoricalStats(ctx context.Context, venueID string) (simulation.HistoricalStats, error)
	CompetitorSnapshots(ctx context.Context, venueID string) ([]simulation.CompetitorSnapshot, error)
}

// Repository wires together catalog snapshot persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// LatestSnapshot loads the most recent catalog snapshot for the venue and maps
// it into engine products. Returns an empty slice when the venue has no
// snapshot yet.
func (r *Repository) LatestSnapshot(ctx context.Context, venueID string) ([]simulation.Product, error) {
	var latest time.Time
	err := r.db.WithContext(ctx).
		Model(&models.CatalogProduct{}).
		Where("venue_id = ?", venueID).
		Select("MAX(snapshot_at)").
		Scan(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("resolving latest snapshot: %w", err)
	}
	if latest.IsZero() {
		return []simulation.Product{}, nil
	}

	var rows []models.CatalogProduct
	err = r.db.WithContext(ctx).
		Where("venue_id = ? AND snapshot_at = ?", venueID, latest).
		Order("product_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading catalog snapshot: %w", err)
	}

	products := make([]simulation.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, toEngineProduct(row))
	}
	return products, nil
}

// ReplaceSnapshot writes a fresh catalog snapshot for the venue, dropping any
// previous rows. Runs in a single transaction so readers never observe a
// half-written snapshot.
func (r *Repository) ReplaceSnapshot(ctx context.Context, venueID string, products []simulation.Product, snapshotAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.CatalogProduct{}).Error; err != nil {
			return fmt.Errorf("clearing previous snapshot: %w", err)
		}
		if len(products) == 0 {
			return nil
		}
		rows := make([]models.CatalogProduct, 0, len(products))
		for _, product := range products {
			rows = append(rows, fromEngineProduct(venueID, product, snapshotAt))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("writing snapshot rows: %w", err)
		}
		return nil
	})
}

// HistoricalStats loads the venue's calibration row. A venue with no history
// yields zero-value stats and no error so the engine can fall back to its
// built-in defaults.
func (r *Repository) HistoricalStats(ctx context.Context, venueID string) (simulation.HistoricalStats, error) {
	var row models.HistoricalStat
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return simulation.HistoricalStats{}, nil
	}
	if err != nil {
		return simulation.HistoricalStats{}, fmt.Errorf("loading historical stats: %w", err)
	}

	stats := toEngineStats(row)

	var shares []models.HistoricalCategoryShare
	err = r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("category ASC").
		Find(&shares).Error
	if err != nil {
		return simulation.HistoricalStats{}, fmt.Errorf("loading category shares: %w", err)
	}
	if len(shares) > 0 {
		stats.CategoryMix = make(map[enums.ProductCategory]float64, len(shares))
		for _, share := range shares {
			stats.CategoryMix[share.Category] = share.Share
		}
	}
	return stats, nil
}

// UpsertHistoricalStats replaces the venue's calibration row and its category
// shares.
func (r *Repository) UpsertHistoricalStats(ctx context.Context, venueID string, stats simulation.HistoricalStats) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.HistoricalStat{}).Error; err != nil {
			return fmt.Errorf("clearing previous stats: %w", err)
		}
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.HistoricalCategoryShare{}).Error; err != nil {
			return fmt.Errorf("clearing previous shares: %w", err)
		}

		row := fromEngineStats(venueID, stats)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("writing stats row: %w", err)
		}
		if len(stats.CategoryMix) == 0 {
			return nil
		}
		shares := make([]models.HistoricalCategoryShare, 0, len(stats.CategoryMix))
		for category, share := range stats.CategoryMix {
			shares = append(shares, models.HistoricalCategoryShare{
				VenueID:  venueID,
				Category: category,
				Share:    share,
			})
		}
		if err := tx.Create(&shares).Error; err != nil {
			return fmt.Errorf("writing category shares: %w", err)
		}
		return nil
	})
}

// CompetitorSnapshots loads the venue's per-category competitor counts.
func (r *Repository) CompetitorSnapshots(ctx context.Context, venueID string) ([]simulation.CompetitorSnapshot, error) {
	var rows []models.CompetitorSnapshot
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("category ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading competitor snapshots: %w", err)
	}

	snapshots := make([]simulation.CompetitorSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, simulation.CompetitorSnapshot{
			Category:     row.Category,
			ProductCount: row.ProductCount,
		})
	}
	return snapshots, nil
}

// ReplaceCompetitorSnapshots swaps the venue's competitor counts in one
// transaction.
func (r *Repository) ReplaceCompetitorSnapshots(ctx context.Context, venueID string, snapshots []simulation.CompetitorSnapshot, capturedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.CompetitorSnapshot{}).Error; err != nil {
			return fmt.Errorf("clearing previous competitor snapshots: %w", err)
		}
		if len(snapshots) == 0 {
			return nil
		}
		rows := make([]models.CompetitorSnapshot, 0, len(snapshots))
		for _, snapshot := range snapshots {
			rows = append(rows, models.CompetitorSnapshot{
				VenueID:      venueID,
				Category:     snapshot.Category,
				ProductCount: snapshot.ProductCount,
				CapturedAt:   capturedAt,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("writing competitor snapshots: %w", err)
		}
		return nil
	})
}

func toEngineProduct(row models.CatalogProduct) simulation.Product {
	product := simulation.Product{
		ID:       row.ProductKey,
		Category: row.Category,
		Price:    row.Price,
		Cost:     row.Cost,
		InStock:  row.InStock,
	}
	if row.VariantKey != nil {
		product.VariantID = *row.VariantKey
	}
	if row.BrandKey != nil {
		product.BrandID = *row.BrandKey
	}
	return product
}

func fromEngineProduct(venueID string, product simulation.Product, snapshotAt time.Time) models.CatalogProduct {
	row := models.CatalogProduct{
		VenueID:    venueID,
		ProductKey: product.ID,
		Category:   product.Category,
		Tags:       pq.StringArray{},
		Price:      product.Price,
		Cost:       product.Cost,
		InStock:    product.InStock,
		SnapshotAt: snapshotAt,
	}
	if product.VariantID != "" {
		variant := product.VariantID
		row.VariantKey = &variant
	}
	if product.BrandID != "" {
		brand := product.BrandID
		row.BrandKey = &brand
	}
	return row
}

func toEngineStats(row models.HistoricalStat) simulation.HistoricalStats {
	stats := simulation.HistoricalStats{AvgOrdersPerDay: row.AvgOrdersPerDay}

	segments := map[enums.CustomerSegment]float64{
		enums.CustomerSegmentNew:         row.SegmentNew,
		enums.CustomerSegmentReturning:   row.SegmentReturning,
		enums.CustomerSegmentVIP:         row.SegmentVIP,
		enums.CustomerSegmentDealSeeker:  row.SegmentDealSeeker,
		enums.CustomerSegmentConnoisseur: row.SegmentConnoisseur,
	}
	if mixTotal(segments) > 0 {
		stats.SegmentMix = segments
	}

	budgets := map[enums.BudgetBand]float64{
		enums.BudgetBandLow:  row.BudgetLow,
		enums.BudgetBandMid:  row.BudgetMid,
		enums.BudgetBandHigh: row.BudgetHigh,
	}
	if mixTotal(budgets) > 0 {
		stats.BudgetMix = budgets
	}
	return stats
}

func fromEngineStats(venueID string, stats simulation.HistoricalStats) models.HistoricalStat {
	return models.HistoricalStat{
		VenueID:            venueID,
		AvgOrdersPerDay:    stats.AvgOrdersPerDay,
		SegmentNew:         stats.SegmentMix[enums.CustomerSegmentNew],
		SegmentReturning:   stats.SegmentMix[enums.CustomerSegmentReturning],
		SegmentVIP:         stats.SegmentMix[enums.CustomerSegmentVIP],
		SegmentDealSeeker:  stats.SegmentMix[enums.CustomerSegmentDealSeeker],
		SegmentConnoisseur: stats.SegmentMix[enums.CustomerSegmentConnoisseur],
		BudgetLow:          stats.BudgetMix[enums.BudgetBandLow],
		BudgetMid:          stats.BudgetMix[enums.BudgetBandMid],
		BudgetHigh:         stats.BudgetMix[enums.BudgetBandHigh],
	}
}

func mixTotal[K comparable](mix map[K]float64) float64 {
	total := 0.0
	for _, share := range mix {
		total += share
	}
	return total
}
