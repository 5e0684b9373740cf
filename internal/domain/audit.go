package domain

import "time"

type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditSyncComplete AuditAction = "SYNC_COMPLETE"
)

// AuditLogEntry is an append-only record of an entity mutation, kept for
// traceability. It is never read back by business logic.
type AuditLogEntry struct {
	ID        int64       `json:"id"`
	Action    AuditAction `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  int64       `json:"entity_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Metadata  string      `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at"`
}
