package models

import "time"

const AuditLogTable = "eln_audit_log"

// Audit actions.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditMove   = "move"
)

// AuditLog records who changed what. One row per mutating operation.
type AuditLog struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID       string    `gorm:"type:uuid;index" json:"actorId"`
	ActorUsername string    `gorm:"size:255" json:"actorUsername"`
	Action        string    `gorm:"size:20;not null" json:"action"`
	EntityType    string    `gorm:"size:40;not null;index" json:"entityType"`
	EntityID      string    `gorm:"size:64" json:"entityId"`
	Detail        string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string { return AuditLogTable }
