package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"el_node_inventory/models"
)

var ErrDestinationNameTaken = errors.New("destination name already exists")

// DestinationInUseError blocks deletion while units are still assigned;
// the count goes into the user-facing message.
type DestinationInUseError struct{ Count int64 }

func (e *DestinationInUseError) Error() string {
	return fmt.Sprintf("cannot delete destination, %d items are assigned to it", e.Count)
}

func (r *Repo) CreateDestination(ctx context.Context, name, description string) (*models.Destination, error) {
	d := &models.Destination{ID: uuid.NewString(), Name: name, Description: description}
	err := r.DB.WithContext(ctx).Create(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDestinationNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}
	return d, nil
}

func (r *Repo) FindDestinationByID(ctx context.Context, id string) (*models.Destination, error) {
	var d models.Destination
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	var dests []models.Destination
	err := r.DB.WithContext(ctx).Order("name").Find(&dests).Error
	return dests, err
}

func (r *Repo) UpdateDestination(ctx context.Context, id, name, description string) (*models.Destination, error) {
	d, err := r.FindDestinationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = name
	d.Description = description
	err = r.DB.WithContext(ctx).Save(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDestinationNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("updating destination: %w", err)
	}
	return d, nil
}

func (r *Repo) DeleteDestination(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("destination_id = ?", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &DestinationInUseError{Count: n}
	}
	res := r.DB.WithContext(ctx).Delete(&models.Destination{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
