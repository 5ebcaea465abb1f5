package allocator

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeCatalog maps IDs to short codes.
type fakeCatalog struct {
	categories map[string]string
	products   map[string]string
}

func (f *fakeCatalog) CategoryCode(_ context.Context, id string) (string, error) {
	code, ok := f.categories[id]
	if !ok {
		return "", ErrCategoryNotFound
	}
	return code, nil
}

func (f *fakeCatalog) ProductCode(_ context.Context, id string) (string, error) {
	code, ok := f.products[id]
	if !ok {
		return "", ErrProductNotFound
	}
	return code, nil
}

// fakeItems is an in-memory item store with a uniqueness constraint.
type fakeItems struct {
	codes map[UniqueCode]bool
}

func newFakeItems() *fakeItems { return &fakeItems{codes: make(map[UniqueCode]bool)} }

func (f *fakeItems) CountItems(_ context.Context, catCode, prodCode string, year int) (int64, error) {
	var n int64
	for code := range f.codes {
		p, err := ParseCode(code)
		if err != nil {
			continue
		}
		if p.CategoryCode == catCode && p.ProductCode == prodCode && p.Year == year {
			n++
		}
	}
	return n, nil
}

func (f *fakeItems) create(code UniqueCode) error {
	if f.codes[code] {
		return ErrDuplicateCode
	}
	f.codes[code] = true
	return nil
}

func newTestAllocator(t *testing.T, prefix string) (*Allocator, *fakeItems) {
	t.Helper()
	catalog := &fakeCatalog{
		categories: map[string]string{"cat-1": "ELEC", "cat-2": "FUR"},
		products:   map[string]string{"prod-1": "LAP", "prod-2": "TAB"},
	}
	items := newFakeItems()
	alloc, err := New(catalog, items, prefix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return alloc, items
}

func TestAllocateCodeSequence(t *testing.T) {
	alloc, items := newTestAllocator(t, "ORG")
	ctx := context.Background()

	// Three existing units in the (ELEC, LAP, 2024) bucket.
	for seq := 1; seq <= 3; seq++ {
		items.codes[FormatCode("ORG", "ELEC", "LAP", 2024, seq)] = true
	}

	code, err := alloc.AllocateCode(ctx, "cat-1", "prod-1", 2024)
	if err != nil {
		t.Fatalf("AllocateCode: %v", err)
	}
	if code != "ORG-ELEC-LAP-2024-0004" {
		t.Errorf("expected ORG-ELEC-LAP-2024-0004, got %q", code)
	}

	// Nothing was persisted, so the read is idempotent.
	again, err := alloc.AllocateCode(ctx, "cat-1", "prod-1", 2024)
	if err != nil {
		t.Fatalf("AllocateCode (repeat): %v", err)
	}
	if again != code {
		t.Errorf("expected identical code on unchanged bucket, got %q then %q", code, again)
	}

	// Persisting unit 4 advances the bucket.
	if err := items.create(code); err != nil {
		t.Fatalf("create: %v", err)
	}
	next, err := alloc.AllocateCode(ctx, "cat-1", "prod-1", 2024)
	if err != nil {
		t.Fatalf("AllocateCode (after persist): %v", err)
	}
	if next != "ORG-ELEC-LAP-2024-0005" {
		t.Errorf("expected ORG-ELEC-LAP-2024-0005, got %q", next)
	}
}

func TestAllocateBucketsAreIndependent(t *testing.T) {
	alloc, items := newTestAllocator(t, "EHS")
	ctx := context.Background()

	persist := func(code UniqueCode) error { return items.create(code) }

	a, err := alloc.Allocate(ctx, "cat-2", "prod-2", 2023, persist)
	if err != nil {
		t.Fatalf("Allocate 2023: %v", err)
	}
	b, err := alloc.Allocate(ctx, "cat-2", "prod-2", 2024, persist)
	if err != nil {
		t.Fatalf("Allocate 2024: %v", err)
	}

	// Same product code across years starts each bucket at 0001.
	if a != "EHS-FUR-TAB-2023-0001" || b != "EHS-FUR-TAB-2024-0001" {
		t.Errorf("expected per-year buckets, got %q and %q", a, b)
	}
}

func TestAllocateUniqueness(t *testing.T) {
	alloc, items := newTestAllocator(t, "EHS")
	ctx := context.Background()

	seen := make(map[UniqueCode]bool)
	for i := 0; i < 50; i++ {
		code, err := alloc.Allocate(ctx, "cat-1", "prod-1", 2024, items.create)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q at allocation #%d", code, i)
		}
		seen[code] = true
	}
}

func TestAllocateRetriesAfterLostRace(t *testing.T) {
	alloc, items := newTestAllocator(t, "EHS")
	ctx := context.Background()

	// Both "callers" read count=3.
	for seq := 1; seq <= 3; seq++ {
		items.codes[FormatCode("EHS", "ELEC", "LAP", 2024, seq)] = true
	}

	attempts := 0
	code, err := alloc.Allocate(ctx, "cat-1", "prod-1", 2024, func(code UniqueCode) error {
		attempts++
		if attempts == 1 {
			// The rival write lands first, taking 0004.
			if err := items.create(code); err != nil {
				return err
			}
			return ErrDuplicateCode
		}
		return items.create(code)
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if code != "EHS-ELEC-LAP-2024-0005" {
		t.Errorf("expected retry to land on 0005, got %q", code)
	}
	if attempts != 2 {
		t.Errorf("expected 2 persist attempts, got %d", attempts)
	}
}

func TestAllocateGivesUpAfterBoundedRetries(t *testing.T) {
	alloc, _ := newTestAllocator(t, "EHS")
	ctx := context.Background()

	attempts := 0
	_, err := alloc.Allocate(ctx, "cat-1", "prod-1", 2024, func(UniqueCode) error {
		attempts++
		return ErrDuplicateCode
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if attempts != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, attempts)
	}
}

func TestAllocatePersistErrorAborts(t *testing.T) {
	alloc, _ := newTestAllocator(t, "EHS")

	boom := fmt.Errorf("disk on fire")
	attempts := 0
	_, err := alloc.Allocate(context.Background(), "cat-1", "prod-1", 2024, func(UniqueCode) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected persist error to surface, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected no retry on non-conflict error, got %d attempts", attempts)
	}
}

func TestAllocateSequenceExhausted(t *testing.T) {
	catalog := &fakeCatalog{
		categories: map[string]string{"cat-1": "ELEC"},
		products:   map[string]string{"prod-1": "LAP"},
	}
	full := countStub(MaxSequence)
	alloc, err := New(catalog, full, "EHS")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = alloc.AllocateCode(context.Background(), "cat-1", "prod-1", 2024)
	if !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("expected ErrSequenceExhausted, got %v", err)
	}
}

// countStub reports a fixed bucket count.
type countStub int64

func (c countStub) CountItems(context.Context, string, string, int) (int64, error) {
	return int64(c), nil
}

func TestAllocateCatalogErrors(t *testing.T) {
	alloc, _ := newTestAllocator(t, "EHS")
	ctx := context.Background()

	if _, err := alloc.AllocateCode(ctx, "missing", "prod-1", 2024); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := alloc.AllocateCode(ctx, "cat-1", "missing", 2024); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := alloc.AllocateCode(ctx, "cat-1", "prod-1", 24); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("expected ErrInvalidYear, got %v", err)
	}
}

func TestNewRejectsDelimiterInPrefix(t *testing.T) {
	if _, err := New(&fakeCatalog{}, newFakeItems(), "EL-NODE"); err == nil {
		t.Error("expected error for prefix containing delimiter")
	}

	alloc, err := New(&fakeCatalog{}, newFakeItems(), "")
	if err != nil {
		t.Fatalf("New with empty prefix: %v", err)
	}
	if alloc.Prefix() != DefaultPrefix {
		t.Errorf("expected default prefix %q, got %q", DefaultPrefix, alloc.Prefix())
	}
}
