package models

import "time"

const ProductTable = "eln_products"

// Product is a catalog entry under a category. Its short code is unique
// within the category and becomes the third segment of asset tags.
type Product struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	ShortCode   string `gorm:"size:10;not null;index:idx_eln_products_cat_code,unique" json:"code"` // 1-10 uppercase letters/digits
	CategoryID  string `gorm:"type:uuid;not null;index:idx_eln_products_cat_code,unique" json:"categoryId"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Image     []byte `gorm:"type:bytea" json:"-"`
	ImageMime string `gorm:"size:64" json:"imageMime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return ProductTable }
