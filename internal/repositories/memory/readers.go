package memory

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalReader           = (*Store)(nil)
	_ portsrepo.TransactionLogReader    = (*Store)(nil)
	_ portsrepo.AgentLedgerReader       = (*Store)(nil)
	_ portsrepo.SummaryReader           = (*Store)(nil)
)

func (s *Store) FindAccountByCode(ctx context.Context, code string) (acc *domain.Account, err error) {
	s.read(func(v *view) { acc, err = v.FindAccountByCode(ctx, code) })
	return acc, err
}

func (s *Store) FindAccountsByCodes(ctx context.Context, codes []string) (found map[string]domain.Account, err error) {
	s.read(func(v *view) { found, err = v.FindAccountsByCodes(ctx, codes) })
	return found, err
}

func (s *Store) ListAccounts(ctx context.Context) (accounts []domain.Account, err error) {
	s.read(func(v *view) { accounts, err = v.ListAccounts(ctx) })
	return accounts, err
}

// InsertAccountIfAbsent commits the account immediately.
func (s *Store) InsertAccountIfAbsent(ctx context.Context, account domain.Account) (inserted bool, err error) {
	err = s.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		inserted, err = repos.Accounts.InsertAccountIfAbsent(ctx, account)
		return err
	})
	return inserted, err
}

func (s *Store) FindEntriesByReference(ctx context.Context, referenceID string) (entries []domain.JournalEntry, err error) {
	s.read(func(v *view) { entries, err = v.FindEntriesByReference(ctx, referenceID) })
	return entries, err
}

func (s *Store) FindTransactionByID(ctx context.Context, id string) (txn *domain.TransactionLog, err error) {
	s.read(func(v *view) { txn, err = v.FindTransactionByID(ctx, id) })
	return txn, err
}

func (s *Store) FindTransactionBySourceEventID(ctx context.Context, sourceEventID string) (txn *domain.TransactionLog, err error) {
	s.read(func(v *view) { txn, err = v.FindTransactionBySourceEventID(ctx, sourceEventID) })
	return txn, err
}

func (s *Store) FindTransactionByNumber(ctx context.Context, transactionNumber string) (txn *domain.TransactionLog, err error) {
	s.read(func(v *view) { txn, err = v.FindTransactionByNumber(ctx, transactionNumber) })
	return txn, err
}

func (s *Store) FindReversalOf(ctx context.Context, originalID string) (txn *domain.TransactionLog, err error) {
	s.read(func(v *view) { txn, err = v.FindReversalOf(ctx, originalID) })
	return txn, err
}

func (s *Store) ListPostedByAgentBetween(ctx context.Context, agentID string, from, to time.Time) (txns []domain.TransactionLog, err error) {
	s.read(func(v *view) { txns, err = v.ListPostedByAgentBetween(ctx, agentID, from, to) })
	return txns, err
}

func (s *Store) ListTransactionsByAgent(ctx context.Context, agentID string, limit int, nextToken *string) (txns []domain.TransactionLog, next *string, err error) {
	s.read(func(v *view) { txns, next, err = v.ListTransactionsByAgent(ctx, agentID, limit, nextToken) })
	return txns, next, err
}

func (s *Store) FindAgentAccount(ctx context.Context, agentID string) (acc *domain.AgentAccount, err error) {
	s.read(func(v *view) { acc, err = v.FindAgentAccount(ctx, agentID) })
	return acc, err
}

func (s *Store) ListLedgerEntries(ctx context.Context, agentID string) (entries []domain.AgentLedgerEntry, err error) {
	s.read(func(v *view) { entries, err = v.ListLedgerEntries(ctx, agentID) })
	return entries, err
}

func (s *Store) ListLedgerEntriesBetween(ctx context.Context, agentID string, from, to time.Time) (entries []domain.AgentLedgerEntry, err error) {
	s.read(func(v *view) { entries, err = v.ListLedgerEntriesBetween(ctx, agentID, from, to) })
	return entries, err
}

func (s *Store) BalanceBefore(ctx context.Context, agentID string, t time.Time) (balance decimal.Decimal, err error) {
	s.read(func(v *view) { balance, err = v.BalanceBefore(ctx, agentID, t) })
	return balance, err
}

func (s *Store) ListReceivableMovements(ctx context.Context, agentID string) (movements []domain.ReceivableMovement, err error) {
	s.read(func(v *view) { movements, err = v.ListReceivableMovements(ctx, agentID) })
	return movements, err
}

func (s *Store) ListAgentIDs(ctx context.Context) (ids []string, err error) {
	s.read(func(v *view) { ids, err = v.ListAgentIDs(ctx) })
	return ids, err
}

func (s *Store) FindSummary(ctx context.Context, agentID string, g domain.Granularity, periodStart time.Time) (summary *domain.PeriodSummary, err error) {
	s.read(func(v *view) { summary, err = v.FindSummary(ctx, agentID, g, periodStart) })
	return summary, err
}
