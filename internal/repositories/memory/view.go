package memory

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// view operates on one state without locking. The caller holds the store lock.
type view struct {
	st       *state
	auditErr error
}

var (
	_ portsrepo.AccountRepositoryFacade        = (*view)(nil)
	_ portsrepo.JournalRepositoryFacade        = (*view)(nil)
	_ portsrepo.TransactionLogRepositoryFacade = (*view)(nil)
	_ portsrepo.AgentLedgerTxRepository        = (*view)(nil)
	_ portsrepo.SummaryRepositoryFacade        = (*view)(nil)
	_ portsrepo.AuditWriter                    = (*view)(nil)
)

func (v *view) repos() portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:     v,
		Journal:      v,
		Transactions: v,
		Ledger:       v,
		Summaries:    v,
		Audit:        v,
	}
}

// --- accounts ---

func (v *view) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	acc, ok := v.st.accounts[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + code + " not found")
	}
	return &acc, nil
}

func (v *view) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if acc, ok := v.st.accounts[code]; ok {
			found[code] = acc
		}
	}
	return found, nil
}

func (v *view) ListAccounts(_ context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(v.st.accounts))
	for _, acc := range v.st.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (v *view) InsertAccountIfAbsent(_ context.Context, account domain.Account) (bool, error) {
	if _, ok := v.st.accounts[account.Code]; ok {
		return false, nil
	}
	v.st.accounts[account.Code] = account
	return true, nil
}

// --- journal ---

func (v *view) FindEntriesByReference(_ context.Context, referenceID string) ([]domain.JournalEntry, error) {
	entries := append([]domain.JournalEntry{}, v.st.journal[referenceID]...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].LineNo < entries[j].LineNo })
	return entries, nil
}

func (v *view) SaveEntries(_ context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ref := entries[0].ReferenceID
	if _, exists := v.st.journal[ref]; exists {
		return apperrors.NewAppError(http.StatusConflict, "journal reference "+ref+" already posted", apperrors.ErrConflict)
	}
	v.st.journal[ref] = append([]domain.JournalEntry(nil), entries...)
	return nil
}

// --- transaction log ---

func (v *view) FindTransactionByID(_ context.Context, id string) (*domain.TransactionLog, error) {
	txn, ok := v.st.txns[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction " + id + " not found")
	}
	return &txn, nil
}

func (v *view) FindTransactionBySourceEventID(ctx context.Context, sourceEventID string) (*domain.TransactionLog, error) {
	id, ok := v.st.bySource[sourceEventID]
	if !ok {
		return nil, apperrors.NewNotFoundError("source event " + sourceEventID + " not recorded")
	}
	return v.FindTransactionByID(ctx, id)
}

func (v *view) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error) {
	id, ok := v.st.byNumber[transactionNumber]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction " + transactionNumber + " not found")
	}
	return v.FindTransactionByID(ctx, id)
}

func (v *view) FindReversalOf(ctx context.Context, originalID string) (*domain.TransactionLog, error) {
	id, ok := v.st.reversals[originalID]
	if ok {
		if txn, found := v.st.txns[id]; found && txn.Status == domain.StatusPosted {
			return &txn, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no reversal of transaction " + originalID)
}

func (v *view) ListPostedByAgentBetween(_ context.Context, agentID string, from, to time.Time) ([]domain.TransactionLog, error) {
	var posted []domain.TransactionLog
	for _, txn := range v.st.txns {
		if txn.AgentID != agentID || txn.Status != domain.StatusPosted || txn.PostedAt == nil {
			continue
		}
		if txn.PostedAt.Before(from) || !txn.PostedAt.Before(to) {
			continue
		}
		posted = append(posted, txn)
	}
	sort.SliceStable(posted, func(i, j int) bool {
		if !posted[i].PostedAt.Equal(*posted[j].PostedAt) {
			return posted[i].PostedAt.Before(*posted[j].PostedAt)
		}
		return posted[i].ID < posted[j].ID
	})
	return posted, nil
}

func (v *view) ListTransactionsByAgent(_ context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error) {
	var (
		tokenAt time.Time
		tokenID string
	)
	if nextToken != nil && *nextToken != "" {
		var err error
		tokenAt, tokenID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
	}

	var rows []domain.TransactionLog
	for _, txn := range v.st.txns {
		if txn.AgentID != agentID {
			continue
		}
		if tokenID != "" && !pagination.After(txn.CreatedAt, txn.ID, tokenAt, tokenID) {
			continue
		}
		rows = append(rows, txn)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})

	if len(rows) <= limit {
		return rows, nil, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ID)
	return page, &token, nil
}

func (v *view) InsertTransaction(_ context.Context, txn domain.TransactionLog) (bool, error) {
	if _, exists := v.st.bySource[txn.SourceEventID]; exists {
		return false, nil
	}
	if _, exists := v.st.byNumber[txn.TransactionNumber]; exists {
		return false, apperrors.NewConcurrencyError("transaction number "+txn.TransactionNumber+" already taken", nil)
	}
	if txn.ReversesTransactionID != nil {
		if _, reversed := v.st.reversals[*txn.ReversesTransactionID]; reversed {
			return false, apperrors.NewConcurrencyError("transaction "+*txn.ReversesTransactionID+" already has a reversal", nil)
		}
		v.st.reversals[*txn.ReversesTransactionID] = txn.ID
	}
	v.st.txns[txn.ID] = txn
	v.st.bySource[txn.SourceEventID] = txn.ID
	v.st.byNumber[txn.TransactionNumber] = txn.ID
	return true, nil
}

func (v *view) MarkPosted(_ context.Context, id string, postedAt time.Time) error {
	txn, ok := v.st.txns[id]
	if !ok {
		return apperrors.NewNotFoundError("transaction " + id + " not found")
	}
	if txn.Status != domain.StatusPending {
		return apperrors.NewAppError(http.StatusConflict, "transaction "+txn.TransactionNumber+" is "+string(txn.Status), apperrors.ErrConflict)
	}
	txn.Status = domain.StatusPosted
	txn.PostedAt = &postedAt
	v.st.txns[id] = txn
	return nil
}

// --- agent ledger ---

func (v *view) FindAgentAccount(_ context.Context, agentID string) (*domain.AgentAccount, error) {
	acc, ok := v.st.agents[agentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("agent " + agentID + " has no ledger")
	}
	return &acc, nil
}

func (v *view) ListLedgerEntries(_ context.Context, agentID string) ([]domain.AgentLedgerEntry, error) {
	return append([]domain.AgentLedgerEntry{}, v.st.ledger[agentID]...), nil
}

func (v *view) ListLedgerEntriesBetween(_ context.Context, agentID string, from, to time.Time) ([]domain.AgentLedgerEntry, error) {
	entries := []domain.AgentLedgerEntry{}
	for _, e := range v.st.ledger[agentID] {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (v *view) BalanceBefore(_ context.Context, agentID string, t time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	var lastSeq int64
	for _, e := range v.st.ledger[agentID] {
		if e.CreatedAt.Before(t) && e.Sequence > lastSeq {
			balance = e.RunningBalanceAfter
			lastSeq = e.Sequence
		}
	}
	return balance, nil
}

func (v *view) ListReceivableMovements(_ context.Context, agentID string) ([]domain.ReceivableMovement, error) {
	movements := []domain.ReceivableMovement{}
	for _, e := range v.st.ledger[agentID] {
		if e.ReceivableDelta.IsZero() {
			continue
		}
		txn := v.st.txns[e.TransactionLogID]
		movements = append(movements, domain.ReceivableMovement{
			TransactionLogID:      e.TransactionLogID,
			TransactionNumber:     txn.TransactionNumber,
			EventType:             txn.EventType,
			ReversesTransactionID: txn.ReversesTransactionID,
			Sequence:              e.Sequence,
			Delta:                 e.ReceivableDelta,
			CreatedAt:             e.CreatedAt,
		})
	}
	return movements, nil
}

func (v *view) ListAgentIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(v.st.agents))
	for id := range v.st.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (v *view) LockAgentAccount(_ context.Context, defaults domain.AgentAccount) (*domain.AgentAccount, error) {
	acc, ok := v.st.agents[defaults.AgentID]
	if !ok {
		acc = defaults
		v.st.agents[acc.AgentID] = acc
	}
	return &acc, nil
}

func (v *view) LockExistingAgentAccount(_ context.Context, agentID string) (*domain.AgentAccount, error) {
	acc, ok := v.st.agents[agentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("agent " + agentID + " has no ledger")
	}
	return &acc, nil
}

func (v *view) SaveAgentAccount(_ context.Context, account domain.AgentAccount) error {
	if _, ok := v.st.agents[account.AgentID]; !ok {
		return apperrors.NewNotFoundError("agent " + account.AgentID + " has no ledger")
	}
	v.st.agents[account.AgentID] = account
	return nil
}

func (v *view) AppendLedgerEntry(_ context.Context, entry domain.AgentLedgerEntry) error {
	entries := v.st.ledger[entry.AgentID]
	if n := len(entries); n > 0 && entries[n-1].Sequence >= entry.Sequence {
		return apperrors.NewConcurrencyError("agent ledger sequence already taken", nil)
	}
	v.st.ledger[entry.AgentID] = append(entries, entry)
	return nil
}

// --- summaries ---

func (v *view) FindSummary(_ context.Context, agentID string, g domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error) {
	s, ok := v.st.summaries[keyFor(agentID, g, periodStart)]
	if !ok {
		return nil, apperrors.NewNotFoundError("no " + string(g) + " summary for agent " + agentID)
	}
	s = copySummary(s)
	return &s, nil
}

func (v *view) SaveSummary(_ context.Context, summary domain.PeriodSummary) error {
	v.st.summaries[keyFor(summary.AgentID, summary.Granularity, summary.PeriodStart)] = copySummary(summary)
	return nil
}

// --- audit ---

func (v *view) AppendAudit(_ context.Context, entry domain.AuditLogEntry) error {
	if v.auditErr != nil {
		return apperrors.NewPersistenceError("audit log unavailable", v.auditErr)
	}
	v.st.audit = append(v.st.audit, entry)
	return nil
}
