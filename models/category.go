package models

import "time"

const CategoryTable = "eln_categories"

// Category groups products and contributes its short code to every
// asset tag minted under it.
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	ShortCode string    `gorm:"size:5;uniqueIndex;not null" json:"code"` // 2-5 uppercase letters
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return CategoryTable }
