package domain

import (
	"encoding/json"
	"time"
)

// SystemActor is recorded when no caller identity is available.
const SystemActor = "system"

// Actor identifies who triggered a state change.
type Actor struct {
	ID        string
	IPAddress string
}

// Audit actions.
const (
	ActionTransactionCreated = "transaction.created"
	ActionTransactionPosted  = "transaction.posted"
	ActionTransactionFailed  = "transaction.failed"
	ActionLedgerAppended     = "agent_ledger.appended"
	ActionCreditLimitChanged = "agent.credit_limit_changed"
	ActionAccountSeeded      = "account.seeded"
	ActionSummaryRebuilt     = "summary.rebuilt"
)

// Audited entity types.
const (
	EntityTransaction = "transaction_log"
	EntityLedgerEntry = "agent_ledger_entry"
	EntityAgent       = "agent_account"
	EntityAccount     = "account"
	EntitySummary     = "period_summary"
)

// AuditLogEntry is a write-once record of one state transition.
type AuditLogEntry struct {
	ID          string          `json:"id"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Action      string          `json:"action"`
	BeforeState json.RawMessage `json:"beforeState,omitempty"`
	AfterState  json.RawMessage `json:"afterState,omitempty"`
	ActorID     string          `json:"actorID"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
