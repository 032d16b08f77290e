package repositories

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// AuditWriter appends audit records. Audit records have no read side in the engine.
type AuditWriter interface {
	AppendAudit(ctx context.Context, entry domain.AuditLogEntry) error
}
