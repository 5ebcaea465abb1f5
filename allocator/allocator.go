package allocator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")

	// ErrDuplicateCode is what a persist callback returns when the item
	// store rejected the computed code on its unique constraint. It is
	// the retry signal for Allocate and is never surfaced directly.
	ErrDuplicateCode = errors.New("unique code already exists")

	// ErrSequenceExhausted means a bucket already holds MaxSequence
	// units and no further code can be minted for it.
	ErrSequenceExhausted = errors.New("sequence exhausted for bucket")

	// ErrRetriesExhausted means concurrent allocations kept winning the
	// bucket for maxAttempts rounds. The caller should retry the whole
	// request.
	ErrRetriesExhausted = errors.New("could not allocate a unique code, please retry")
)

// maxAttempts bounds the re-count-and-retry loop in Allocate.
const maxAttempts = 5

// CatalogStore resolves catalog IDs to short codes.
type CatalogStore interface {
	// CategoryCode returns the short code of a category, or
	// ErrCategoryNotFound.
	CategoryCode(ctx context.Context, categoryID string) (string, error)
	// ProductCode returns the short code of a product, or
	// ErrProductNotFound.
	ProductCode(ctx context.Context, productID string) (string, error)
}

// ItemStore exposes the one query allocation depends on. The count must
// include decommissioned items so their sequence slots are never reused.
type ItemStore interface {
	CountItems(ctx context.Context, categoryCode, productCode string, year int) (int64, error)
}

// Allocator mints unique asset codes. It holds no state of its own:
// the next sequence is always derived from the item store, so multiple
// server instances stay consistent without coordination beyond the
// store's unique constraint.
type Allocator struct {
	catalog CatalogStore
	items   ItemStore
	prefix  string
}

// New builds an Allocator with its two collaborators injected. An empty
// prefix falls back to DefaultPrefix; a prefix containing the segment
// delimiter is rejected because it would break ParseCode.
func New(catalog CatalogStore, items ItemStore, prefix string) (*Allocator, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if strings.Contains(prefix, Delimiter) {
		return nil, fmt.Errorf("code prefix %q must not contain %q", prefix, Delimiter)
	}
	return &Allocator{catalog: catalog, items: items, prefix: prefix}, nil
}

// Prefix returns the configured org prefix.
func (a *Allocator) Prefix() string { return a.prefix }

// AllocateCode computes the next code for the (category, product, year)
// bucket without persisting anything. Calling it twice without creating
// an item in between returns the same code.
func (a *Allocator) AllocateCode(ctx context.Context, categoryID, productID string, year int) (UniqueCode, error) {
	catCode, prodCode, err := a.resolve(ctx, categoryID, productID, year)
	if err != nil {
		return "", err
	}
	return a.nextCode(ctx, catCode, prodCode, year)
}

// Allocate computes the next code and hands it to persist. If persist
// reports ErrDuplicateCode a concurrent allocation won the bucket; the
// count is re-read and the attempt repeated, at most maxAttempts times.
// Any other persist error aborts immediately.
func (a *Allocator) Allocate(ctx context.Context, categoryID, productID string, year int, persist func(UniqueCode) error) (UniqueCode, error) {
	catCode, prodCode, err := a.resolve(ctx, categoryID, productID, year)
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := a.nextCode(ctx, catCode, prodCode, year)
		if err != nil {
			return "", err
		}
		switch err := persist(code); {
		case err == nil:
			return code, nil
		case errors.Is(err, ErrDuplicateCode):
			continue
		default:
			return "", err
		}
	}
	return "", fmt.Errorf("%w (bucket %s%s%s%s%d)", ErrRetriesExhausted, catCode, Delimiter, prodCode, Delimiter, year)
}

func (a *Allocator) resolve(ctx context.Context, categoryID, productID string, year int) (catCode, prodCode string, err error) {
	if !yearRe.MatchString(fmt.Sprintf("%d", year)) {
		return "", "", fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	catCode, err = a.catalog.CategoryCode(ctx, categoryID)
	if err != nil {
		return "", "", err
	}
	prodCode, err = a.catalog.ProductCode(ctx, productID)
	if err != nil {
		return "", "", err
	}
	// Catalog rows predate this validation, so re-check at the gate.
	if err := ValidateShortCode(catCode, CategoryCode); err != nil {
		return "", "", err
	}
	if err := ValidateShortCode(prodCode, ProductCode); err != nil {
		return "", "", err
	}
	return catCode, prodCode, nil
}

func (a *Allocator) nextCode(ctx context.Context, catCode, prodCode string, year int) (UniqueCode, error) {
	n, err := a.items.CountItems(ctx, catCode, prodCode, year)
	if err != nil {
		return "", fmt.Errorf("counting bucket %s-%s-%d: %w", catCode, prodCode, year, err)
	}
	seq := int(n) + 1
	if seq > MaxSequence {
		return "", fmt.Errorf("%w: %s-%s-%d already holds %d units", ErrSequenceExhausted, catCode, prodCode, year, MaxSequence)
	}
	return FormatCode(a.prefix, catCode, prodCode, year, seq), nil
}
