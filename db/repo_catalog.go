package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"el_node_inventory/allocator"
	"el_node_inventory/models"
)

var (
	ErrShortCodeTaken = errors.New("short code already exists")
	ErrCategoryInUse  = errors.New("category still has products or items")
	ErrProductInUse   = errors.New("product still has inventory items")

	// ErrShortCodeLocked guards the code segments of already-minted
	// asset tags: once items exist under a catalog entry its short code
	// is frozen.
	ErrShortCodeLocked = errors.New("short code cannot change while inventory items reference it")
)

// allocator.CatalogStore implementation

func (r *Repo) CategoryCode(ctx context.Context, categoryID string) (string, error) {
	cat, err := r.FindCategoryByID(ctx, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", allocator.ErrCategoryNotFound
	}
	if err != nil {
		return "", err
	}
	return cat.ShortCode, nil
}

func (r *Repo) ProductCode(ctx context.Context, productID string) (string, error) {
	prod, err := r.FindProductByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", allocator.ErrProductNotFound
	}
	if err != nil {
		return "", err
	}
	return prod.ShortCode, nil
}

// Categories

func (r *Repo) CreateCategory(ctx context.Context, name, shortCode string) (*models.Category, error) {
	cat := &models.Category{ID: uuid.NewString(), Name: name, ShortCode: shortCode}
	err := r.DB.WithContext(ctx).Create(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrShortCodeTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return cat, nil
}

func (r *Repo) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Order("name").Find(&cats).Error
	return cats, err
}

func (r *Repo) UpdateCategory(ctx context.Context, id, name, shortCode string) (*models.Category, error) {
	cat, err := r.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shortCode != cat.ShortCode {
		n, err := r.countItemsUnder(ctx, "category_id", id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrShortCodeLocked
		}
	}
	cat.Name = name
	cat.ShortCode = shortCode
	err = r.DB.WithContext(ctx).Save(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrShortCodeTaken
	}
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	return cat, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	// Same rule as products: decommissioned units keep the category
	// bound even if every product under it is already gone.
	items, err := r.countItemsUnder(ctx, "category_id", id)
	if err != nil {
		return err
	}
	if items > 0 {
		return ErrCategoryInUse
	}
	res := r.DB.WithContext(ctx).Delete(&models.Category{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Products

func (r *Repo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, err := r.FindCategoryByID(ctx, p.CategoryID); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrShortCodeTaken
	}
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (r *Repo) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	tx := r.DB.WithContext(ctx).Order("name")
	if categoryID != "" {
		tx = tx.Where("category_id = ?", categoryID)
	}
	var products []models.Product
	err := tx.Find(&products).Error
	return products, err
}

type UpdateProductInput struct {
	Name        string
	ShortCode   string
	Description string
	Image       []byte // nil means keep the stored image
	ImageMime   string
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	p, err := r.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ShortCode != p.ShortCode {
		n, err := r.countItemsUnder(ctx, "product_id", id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrShortCodeLocked
		}
	}
	p.Name = in.Name
	p.ShortCode = in.ShortCode
	p.Description = in.Description
	if in.Image != nil {
		p.Image = in.Image
		p.ImageMime = in.ImageMime
	}
	err = r.DB.WithContext(ctx).Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrShortCodeTaken
	}
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	// Decommissioned rows bind the product too: their codes resolve
	// through it, and the bucket count joins on its short code.
	n, err := r.countItemsUnder(ctx, "product_id", id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProductInUse
	}
	res := r.DB.WithContext(ctx).Delete(&models.Product{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// countItemsUnder counts including decommissioned rows: their codes
// still carry the catalog short codes, so those stay frozen too.
func (r *Repo) countItemsUnder(ctx context.Context, column, id string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&models.InventoryItem{}).
		Where(column+" = ?", id).
		Count(&n).Error
	return n, err
}
