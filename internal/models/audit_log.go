package models

import (
	"database/sql"
	"time"
)

// AuditLog is a row of the audit_logs table. States are JSONB and may be NULL.
type AuditLog struct {
	AuditID     string         `json:"auditID"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityID"`
	Action      string         `json:"action"`
	BeforeState []byte         `json:"beforeState"`
	AfterState  []byte         `json:"afterState"`
	ActorID     string         `json:"actorID"`
	IPAddress   sql.NullString `json:"ipAddress"`
	CreatedAt   time.Time      `json:"createdAt"`
}
