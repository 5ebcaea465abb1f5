package db

import (
	"context"
	"errors"
	"testing"

	"el_node_inventory/models"
)

func TestCategoryShortCodeUnique(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateCategory(ctx, "Furniture", "FUR"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, "Furnaces", "FUR"); !errors.Is(err, ErrShortCodeTaken) {
		t.Errorf("expected ErrShortCodeTaken, got %v", err)
	}
}

func TestProductShortCodeScopedToCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	fur, _ := repo.CreateCategory(ctx, "Furniture", "FUR")
	ele, _ := repo.CreateCategory(ctx, "Electronics", "ELE")

	if err := repo.CreateProduct(ctx, &models.Product{Name: "Table", ShortCode: "TAB", CategoryID: fur.ID}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	// Same code in another category is fine.
	if err := repo.CreateProduct(ctx, &models.Product{Name: "Tablet", ShortCode: "TAB", CategoryID: ele.ID}); err != nil {
		t.Errorf("expected cross-category reuse to succeed, got %v", err)
	}
	// Same code in the same category is not.
	if err := repo.CreateProduct(ctx, &models.Product{Name: "Table 2", ShortCode: "TAB", CategoryID: fur.ID}); !errors.Is(err, ErrShortCodeTaken) {
		t.Errorf("expected ErrShortCodeTaken, got %v", err)
	}
}

func TestCategoryDeleteGuard(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	cat, prod := seedCatalog(t, repo, "FUR", "TAB")

	if err := repo.DeleteCategory(ctx, cat.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("expected ErrCategoryInUse, got %v", err)
	}

	if err := repo.DeleteProduct(ctx, prod.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if err := repo.DeleteCategory(ctx, cat.ID); err != nil {
		t.Errorf("expected delete to succeed after removing products, got %v", err)
	}
}

func TestProductDeleteGuard(t *testing.T) {
	repo, alloc := newTestRepo(t)
	ctx := context.Background()
	cat, prod := seedCatalog(t, repo, "FUR", "TAB")

	item, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
		ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024,
	})
	if err != nil {
		t.Fatalf("RegisterItem: %v", err)
	}

	if err := repo.DeleteProduct(ctx, prod.ID); !errors.Is(err, ErrProductInUse) {
		t.Errorf("expected ErrProductInUse, got %v", err)
	}

	// A decommissioned unit still binds the product: its code resolves
	// through it and its sequence slot counts through its short code.
	if err := repo.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := repo.DeleteProduct(ctx, prod.ID); !errors.Is(err, ErrProductInUse) {
		t.Errorf("expected ErrProductInUse after decommission, got %v", err)
	}

	// With the product intact, the bucket keeps sequencing past the
	// dead row instead of recomputing its code.
	next, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
		ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024,
	})
	if err != nil {
		t.Fatalf("RegisterItem (after decommission): %v", err)
	}
	if next.UniqueCode != "EHS-FUR-TAB-2024-0002" {
		t.Errorf("expected EHS-FUR-TAB-2024-0002, got %q", next.UniqueCode)
	}
}

func TestCategoryDeleteGuardCountsDecommissioned(t *testing.T) {
	repo, alloc := newTestRepo(t)
	ctx := context.Background()
	cat, prod := seedCatalog(t, repo, "FUR", "TAB")

	item, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
		ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024,
	})
	if err != nil {
		t.Fatalf("RegisterItem: %v", err)
	}
	if err := repo.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if err := repo.DeleteProduct(ctx, prod.ID); !errors.Is(err, ErrProductInUse) {
		t.Fatalf("expected ErrProductInUse, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, cat.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("expected ErrCategoryInUse, got %v", err)
	}
}

func TestShortCodeLockedWhileItemsExist(t *testing.T) {
	repo, alloc := newTestRepo(t)
	ctx := context.Background()
	cat, prod := seedCatalog(t, repo, "FUR", "TAB")

	item, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
		ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024,
	})
	if err != nil {
		t.Fatalf("RegisterItem: %v", err)
	}

	if _, err := repo.UpdateCategory(ctx, cat.ID, "Furniture", "FRN"); !errors.Is(err, ErrShortCodeLocked) {
		t.Errorf("expected ErrShortCodeLocked for category, got %v", err)
	}
	if _, err := repo.UpdateProduct(ctx, prod.ID, UpdateProductInput{Name: "Table", ShortCode: "TBL"}); !errors.Is(err, ErrShortCodeLocked) {
		t.Errorf("expected ErrShortCodeLocked for product, got %v", err)
	}

	// Renaming without touching the code is allowed.
	if _, err := repo.UpdateCategory(ctx, cat.ID, "Home Furniture", "FUR"); err != nil {
		t.Errorf("UpdateCategory (rename only): %v", err)
	}

	// The lock holds even after decommissioning: old codes must stay
	// parseable against the catalog.
	if err := repo.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := repo.UpdateCategory(ctx, cat.ID, "Furniture", "FRN"); !errors.Is(err, ErrShortCodeLocked) {
		t.Errorf("expected ErrShortCodeLocked after decommission, got %v", err)
	}
}

func TestProductImageRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, prod := seedCatalog(t, repo, "ELE", "CAM")

	updated, err := repo.UpdateProduct(ctx, prod.ID, UpdateProductInput{
		Name:      prod.Name,
		ShortCode: prod.ShortCode,
		Image:     []byte("fake image data"),
		ImageMime: "image/png",
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if string(updated.Image) != "fake image data" || updated.ImageMime != "image/png" {
		t.Errorf("image not stored: mime=%q len=%d", updated.ImageMime, len(updated.Image))
	}

	// Update without image keeps the stored one.
	updated, err = repo.UpdateProduct(ctx, prod.ID, UpdateProductInput{
		Name:      "Camera",
		ShortCode: prod.ShortCode,
	})
	if err != nil {
		t.Fatalf("UpdateProduct (no image): %v", err)
	}
	if len(updated.Image) == 0 {
		t.Error("expected stored image to survive metadata update")
	}
}
