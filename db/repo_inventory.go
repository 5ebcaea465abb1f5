package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"el_node_inventory/allocator"
	"el_node_inventory/models"
)

var (
	ErrInvalidStatus           = errors.New("invalid item status")
	ErrProductCategoryMismatch = errors.New("product does not belong to category")
)

// allocator.ItemStore implementation. Unscoped: decommissioned units
// keep their sequence slots forever.
func (r *Repo) CountItems(ctx context.Context, categoryCode, productCode string, year int) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&models.InventoryItem{}).
		Joins(fmt.Sprintf("JOIN %s c ON c.id = %s.category_id", models.CategoryTable, models.InventoryItemTable)).
		Joins(fmt.Sprintf("JOIN %s p ON p.id = %s.product_id", models.ProductTable, models.InventoryItemTable)).
		Where(fmt.Sprintf("c.short_code = ? AND p.short_code = ? AND %s.year_of_purchase = ?", models.InventoryItemTable),
			categoryCode, productCode, year).
		Count(&n).Error
	return n, err
}

type RegisterItemInput struct {
	ProductID      string
	CategoryID     string
	DestinationID  *string
	Status         models.ItemStatus
	YearOfPurchase int
}

// RegisterItem mints a unique code through the allocator and persists
// the new unit. A lost race on the unique_code index is reported back to
// the allocator as allocator.ErrDuplicateCode, which re-counts and
// retries within its bound.
func (r *Repo) RegisterItem(ctx context.Context, alloc *allocator.Allocator, in RegisterItemInput) (*models.InventoryItem, error) {
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	prod, err := r.FindProductByID(ctx, in.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, allocator.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if prod.CategoryID != in.CategoryID {
		return nil, ErrProductCategoryMismatch
	}
	if in.DestinationID != nil {
		if _, err := r.FindDestinationByID(ctx, *in.DestinationID); err != nil {
			return nil, err
		}
	}

	var item *models.InventoryItem
	_, err = alloc.Allocate(ctx, in.CategoryID, in.ProductID, in.YearOfPurchase, func(code allocator.UniqueCode) error {
		candidate := &models.InventoryItem{
			ID:             uuid.NewString(),
			UniqueCode:     code,
			Status:         in.Status,
			YearOfPurchase: in.YearOfPurchase,
			ProductID:      in.ProductID,
			CategoryID:     in.CategoryID,
			DestinationID:  in.DestinationID,
		}
		if err := r.DB.WithContext(ctx).Create(candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return allocator.ErrDuplicateCode
			}
			return fmt.Errorf("creating inventory item: %w", err)
		}
		item = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var it models.InventoryItem
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

type ItemsQuery struct {
	Q             string // substring match on unique_code
	Status        models.ItemStatus
	ProductID     string
	CategoryID    string
	DestinationID string
	Year          int
	Page          int
	Size          int
}

type PagedItems struct {
	Total int64                  `json:"total"`
	Items []models.InventoryItem `json:"items"`
}

func (r *Repo) ListItems(ctx context.Context, q ItemsQuery) (*PagedItems, error) {
	q.Page, q.Size = clampPage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.InventoryItem{})
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(unique_code) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.ProductID != "" {
		tx = tx.Where("product_id = ?", q.ProductID)
	}
	if q.CategoryID != "" {
		tx = tx.Where("category_id = ?", q.CategoryID)
	}
	if q.DestinationID != "" {
		tx = tx.Where("destination_id = ?", q.DestinationID)
	}
	if q.Year != 0 {
		tx = tx.Where("year_of_purchase = ?", q.Year)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedItems{Total: total, Items: items}, nil
}

type UpdateItemInput struct {
	Status models.ItemStatus // empty means keep
	// Move semantics: nil keeps the current destination, pointer to ""
	// unassigns, anything else must be an existing destination.
	DestinationID *string
}

func (r *Repo) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*models.InventoryItem, error) {
	it, err := r.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
		}
		it.Status = in.Status
	}
	if in.DestinationID != nil {
		if *in.DestinationID == "" {
			it.DestinationID = nil
		} else {
			if _, err := r.FindDestinationByID(ctx, *in.DestinationID); err != nil {
				return nil, err
			}
			it.DestinationID = in.DestinationID
		}
	}
	if err := r.DB.WithContext(ctx).Save(it).Error; err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}
	return it, nil
}

// DeleteItem decommissions a unit. Soft delete: the row stays so the
// bucket count never shrinks and the code is never reissued.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CodesForProduct lists live unit codes whose product segment matches.
// Matching goes through ParseCode rather than string containment, so
// legacy or malformed rows are skipped instead of mismatched.
func (r *Repo) CodesForProduct(ctx context.Context, productCode string) ([]allocator.UniqueCode, error) {
	var codes []allocator.UniqueCode
	if err := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).
		Order("unique_code").
		Pluck("unique_code", &codes).Error; err != nil {
		return nil, err
	}
	matched := make([]allocator.UniqueCode, 0, len(codes))
	for _, code := range codes {
		p, err := allocator.ParseCode(code)
		if err != nil {
			continue
		}
		if p.ProductCode == productCode {
			matched = append(matched, code)
		}
	}
	return matched, nil
}

// Dashboard stats

type StatusCounts struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Maintenance int64 `json:"maintenance"`
	Damaged     int64 `json:"damaged"`
	Discarded   int64 `json:"discarded"`
	Missing     int64 `json:"missing"`
}

func (c *StatusCounts) add(status models.ItemStatus, n int64) {
	c.Total += n
	switch status {
	case models.StatusActive:
		c.Active += n
	case models.StatusMaintenance:
		c.Maintenance += n
	case models.StatusDamaged:
		c.Damaged += n
	case models.StatusDiscarded:
		c.Discarded += n
	case models.StatusMissing:
		c.Missing += n
	}
}

func (r *Repo) ItemStatusStats(ctx context.Context) (StatusCounts, error) {
	rows := []struct {
		Status models.ItemStatus
		N      int64
	}{}
	if err := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return StatusCounts{}, err
	}
	var counts StatusCounts
	for _, row := range rows {
		counts.add(row.Status, row.N)
	}
	return counts, nil
}

type DestinationStats struct {
	Destination models.Destination `json:"destination"`
	Counts      StatusCounts       `json:"counts"`
}

func (r *Repo) DestinationItemStats(ctx context.Context) ([]DestinationStats, error) {
	dests, err := r.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}

	rows := []struct {
		DestinationID string
		Status        models.ItemStatus
		N             int64
	}{}
	if err := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).
		Select("destination_id, status, COUNT(*) AS n").
		Where("destination_id IS NOT NULL").
		Group("destination_id, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byDest := make(map[string]*StatusCounts, len(dests))
	stats := make([]DestinationStats, len(dests))
	for i, d := range dests {
		stats[i] = DestinationStats{Destination: d}
		byDest[d.ID] = &stats[i].Counts
	}
	for _, row := range rows {
		if counts, ok := byDest[row.DestinationID]; ok {
			counts.add(row.Status, row.N)
		}
	}
	return stats, nil
}
