package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

type auditService struct {
	BaseService
}

// AuditServiceOption is a functional option for configuring the audit service
type AuditServiceOption func(*auditService)

// WithAuditClock overrides the clock used for audit timestamps.
func WithAuditClock(clock func() time.Time) AuditServiceOption {
	return func(s *auditService) {
		s.clock = clock
	}
}

// NewAuditService creates the audit log appender.
func NewAuditService(options ...AuditServiceOption) portssvc.AuditSvc {
	svc := &auditService{}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Append writes one audit record through w. Failures are returned so the
// enclosing transaction rolls back.
func (s *auditService) Append(ctx context.Context, w portsrepo.AuditWriter, entityType, entityID, action string, before, after any, actor domain.Actor) error {
	beforeJSON, err := marshalState(before)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode audit before-state", err)
	}
	afterJSON, err := marshalState(after)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode audit after-state", err)
	}

	actorID := actor.ID
	if actorID == "" {
		actorID = domain.SystemActor
	}

	entry := domain.AuditLogEntry{
		ID:          uuid.NewString(),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		BeforeState: beforeJSON,
		AfterState:  afterJSON,
		ActorID:     actorID,
		IPAddress:   actor.IPAddress,
		CreatedAt:   s.Now(),
	}

	if err := w.AppendAudit(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append audit record",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("action", action))
		return err
	}
	return nil
}

func marshalState(state any) (json.RawMessage, error) {
	if state == nil {
		return nil, nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
