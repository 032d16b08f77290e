package mapping

import (
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/models"
)

// ToModelAuditLog converts a domain AuditLogEntry to a model AuditLog
func ToModelAuditLog(d domain.AuditLogEntry) models.AuditLog {
	return models.AuditLog{
		AuditID:     d.ID,
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		Action:      d.Action,
		BeforeState: []byte(d.BeforeState),
		AfterState:  []byte(d.AfterState),
		ActorID:     d.ActorID,
		IPAddress:   nullString(d.IPAddress),
		CreatedAt:   d.CreatedAt,
	}
}
