package pgsql

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit log.
func newPgxAuditRepository(db querier) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditWriter
var _ portsrepo.AuditWriter = (*PgxAuditRepository)(nil)

// AppendAudit inserts one audit record. Rows are never updated.
func (r *PgxAuditRepository) AppendAudit(ctx context.Context, entry domain.AuditLogEntry) error {
	m := mapping.ToModelAuditLog(entry)
	query := `
		INSERT INTO audit_logs (audit_id, entity_type, entity_id, action, before_state, after_state, actor_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.AuditID,
		m.EntityType,
		m.EntityID,
		m.Action,
		m.BeforeState,
		m.AfterState,
		m.ActorID,
		m.IPAddress,
		m.CreatedAt,
	)
	if err != nil {
		return mapError(err, "failed to append audit record for "+m.EntityType+" "+m.EntityID)
	}
	return nil
}
