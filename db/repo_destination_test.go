package db

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDestinationDeleteGuard(t *testing.T) {
	repo, alloc := newTestRepo(t)
	ctx := context.Background()
	cat, prod := seedCatalog(t, repo, "FUR", "TAB")

	dest, err := repo.CreateDestination(ctx, "Storage", "Storage area")
	if err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
			ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024, DestinationID: &dest.ID,
		}); err != nil {
			t.Fatalf("RegisterItem: %v", err)
		}
	}

	err = repo.DeleteDestination(ctx, dest.ID)
	var inUse *DestinationInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected DestinationInUseError, got %v", err)
	}
	if inUse.Count != 2 {
		t.Errorf("expected count 2 in error, got %d", inUse.Count)
	}
	if !strings.Contains(err.Error(), "2 items") {
		t.Errorf("expected count in message, got %q", err.Error())
	}
}

func TestDestinationNameUnique(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateDestination(ctx, "Room-1", ""); err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}
	if _, err := repo.CreateDestination(ctx, "Room-1", "duplicate"); !errors.Is(err, ErrDestinationNameTaken) {
		t.Errorf("expected ErrDestinationNameTaken, got %v", err)
	}
}

func TestDestinationItemStats(t *testing.T) {
	repo, alloc := newTestRepo(t)
	ctx := context.Background()
	cat, prod := seedCatalog(t, repo, "ELE", "LAP")

	room, _ := repo.CreateDestination(ctx, "Room-1", "")
	storage, _ := repo.CreateDestination(ctx, "Storage", "")

	for i := 0; i < 3; i++ {
		if _, err := repo.RegisterItem(ctx, alloc, RegisterItemInput{
			ProductID: prod.ID, CategoryID: cat.ID, YearOfPurchase: 2024, DestinationID: &room.ID,
		}); err != nil {
			t.Fatalf("RegisterItem: %v", err)
		}
	}

	stats, err := repo.DestinationItemStats(ctx)
	if err != nil {
		t.Fatalf("DestinationItemStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 destinations, got %d", len(stats))
	}
	for _, s := range stats {
		switch s.Destination.ID {
		case room.ID:
			if s.Counts.Total != 3 || s.Counts.Active != 3 {
				t.Errorf("room counts: %+v", s.Counts)
			}
		case storage.ID:
			if s.Counts.Total != 0 {
				t.Errorf("storage counts: %+v", s.Counts)
			}
		}
	}
}
