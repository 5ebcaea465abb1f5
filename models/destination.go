package models

import "time"

const DestinationTable = "eln_destinations"

// Destination is a location holding inventory items by reference.
type Destination struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Destination) TableName() string { return DestinationTable }
