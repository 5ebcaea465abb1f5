package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"el_node_inventory/models"
)

func (r *Repo) LogAction(ctx context.Context, actorID, actorUsername, action, entityType, entityID, detail string) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ID:            uuid.NewString(),
		ActorID:       actorID,
		ActorUsername: actorUsername,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return entry, nil
}

type AuditQuery struct {
	EntityType string
	Page       int
	Size       int
}

type PagedAuditLogs struct {
	Total   int64             `json:"total"`
	Entries []models.AuditLog `json:"entries"`
}

func (r *Repo) ListAuditLogs(ctx context.Context, q AuditQuery) (*PagedAuditLogs, error) {
	q.Page, q.Size = clampPage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.AuditLog{})
	if q.EntityType != "" {
		tx = tx.Where("entity_type = ?", q.EntityType)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.AuditLog
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return &PagedAuditLogs{Total: total, Entries: entries}, nil
}
