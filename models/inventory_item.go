package models

import (
	"time"

	"gorm.io/gorm"

	"el_node_inventory/allocator"
)

const InventoryItemTable = "eln_inventory_items"

// ItemStatus is the lifecycle state of a physical unit.
type ItemStatus string

const (
	StatusActive      ItemStatus = "active"
	StatusMaintenance ItemStatus = "maintenance"
	StatusDamaged     ItemStatus = "damaged"
	StatusDiscarded   ItemStatus = "discarded"
	StatusMissing     ItemStatus = "missing"
)

// Valid reports whether s is one of the five known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusDamaged, StatusDiscarded, StatusMissing:
		return true
	}
	return false
}

// InventoryItem is one registered physical unit. The unique code is
// minted once at registration and never changes; rows soft-delete so a
// decommissioned unit keeps occupying its sequence slot.
type InventoryItem struct {
	ID         string               `gorm:"type:uuid;primaryKey" json:"id"`
	UniqueCode allocator.UniqueCode `gorm:"size:40;uniqueIndex;not null" json:"uniqueCode"`
	Status     ItemStatus           `gorm:"size:20;not null;default:'active'" json:"status"`

	YearOfPurchase int    `gorm:"not null" json:"yearOfPurchase"`
	ProductID      string `gorm:"type:uuid;index;not null" json:"productId"`
	CategoryID     string `gorm:"type:uuid;index;not null" json:"categoryId"`

	// Nil means the unit is unassigned.
	DestinationID *string `gorm:"type:uuid;index" json:"destinationId,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InventoryItem) TableName() string { return InventoryItemTable }
