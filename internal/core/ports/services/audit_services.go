package services

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
)

// AuditSvc appends audit records through the writer of the enclosing
// transaction. An error must abort that transaction.
type AuditSvc interface {
	Append(ctx context.Context, w portsrepo.AuditWriter, entityType, entityID, action string, before, after any, actor domain.Actor) error
}
