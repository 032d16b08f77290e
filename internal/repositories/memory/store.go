// Package memory is an in-process implementation of every repository port.
// Transactions are serialized behind one lock and applied copy-on-commit, so
// a failed transaction leaves no trace. It backs the service test suites and
// the "memory" storage driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
)

type summaryKey struct {
	agentID     string
	granularity domain.Granularity
	periodStart int64
}

func keyFor(agentID string, g domain.Granularity, start time.Time) summaryKey {
	return summaryKey{agentID: agentID, granularity: g, periodStart: start.UTC().UnixNano()}
}

type state struct {
	accounts  map[string]domain.Account
	journal   map[string][]domain.JournalEntry
	txns      map[string]domain.TransactionLog
	bySource  map[string]string
	byNumber  map[string]string
	reversals map[string]string
	agents    map[string]domain.AgentAccount
	ledger    map[string][]domain.AgentLedgerEntry
	summaries map[summaryKey]domain.PeriodSummary
	audit     []domain.AuditLogEntry
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		journal:   make(map[string][]domain.JournalEntry),
		txns:      make(map[string]domain.TransactionLog),
		bySource:  make(map[string]string),
		byNumber:  make(map[string]string),
		reversals: make(map[string]string),
		agents:    make(map[string]domain.AgentAccount),
		ledger:    make(map[string][]domain.AgentLedgerEntry),
		summaries: make(map[summaryKey]domain.PeriodSummary),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.journal {
		c.journal[k] = append([]domain.JournalEntry(nil), v...)
	}
	for k, v := range st.txns {
		c.txns[k] = v
	}
	for k, v := range st.bySource {
		c.bySource[k] = v
	}
	for k, v := range st.byNumber {
		c.byNumber[k] = v
	}
	for k, v := range st.reversals {
		c.reversals[k] = v
	}
	for k, v := range st.agents {
		c.agents[k] = v
	}
	for k, v := range st.ledger {
		c.ledger[k] = append([]domain.AgentLedgerEntry(nil), v...)
	}
	for k, v := range st.summaries {
		c.summaries[k] = copySummary(v)
	}
	c.audit = append([]domain.AuditLogEntry(nil), st.audit...)
	return c
}

func copySummary(s domain.PeriodSummary) domain.PeriodSummary {
	counts := make(map[domain.EventType]int64, len(s.EventCounts))
	for k, v := range s.EventCounts {
		counts[k] = v
	}
	s.EventCounts = counts
	return s
}

// Store holds the committed state.
type Store struct {
	mu       sync.Mutex
	st       *state
	auditErr error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTransaction runs fn against a private copy of the state and makes it
// the committed state when fn returns nil. Transactions do not interleave.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	v := &view{st: work, auditErr: s.auditErr}
	if err := fn(ctx, v.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// FailAuditWith makes every later audit append fail with err. A nil err
// restores normal behaviour.
func (s *Store) FailAuditWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// AuditLog returns a copy of every committed audit record.
func (s *Store) AuditLog() []domain.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditLogEntry(nil), s.st.audit...)
}

// CountTransactions returns the number of committed transaction log rows.
func (s *Store) CountTransactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.txns)
}

// CountJournalEntries returns the number of committed journal entries.
func (s *Store) CountJournalEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entries := range s.st.journal {
		n += len(entries)
	}
	return n
}

// ReferenceIDs returns every committed journal reference.
func (s *Store) ReferenceIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]string, 0, len(s.st.journal))
	for ref := range s.st.journal {
		refs = append(refs, ref)
	}
	return refs
}

func (s *Store) read(fn func(v *view)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&view{st: s.st})
}

// Provider returns the repository provider backed by this store.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		JournalRepo:     s,
		TransactionRepo: s,
		LedgerRepo:      s,
		SummaryRepo:     s,
		TxManager:       s,
	}
}
