package accounting

import (
	"strings"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the sign of a line relative to the account's normal balance.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func CalculateSignedAmount(side domain.EntrySide, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.Valid() {
		return decimal.Zero, apperrors.NewValidationError("account_type", "unknown account type %q", accountType)
	}
	if side == accountType.NormalBalance() {
		return amount, nil
	}
	return amount.Neg(), nil
}

// Totals sums the debit and credit sides of a set of drafts.
func Totals(drafts []domain.JournalEntryDraft) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, d := range drafts {
		if d.Side == domain.Debit {
			debits = debits.Add(d.Amount)
		} else {
			credits = credits.Add(d.Amount)
		}
	}
	return debits, credits
}

// ValidateJournalBalance checks that drafts are postable: at least two
// lines, known sides, positive amounts within the currency's minor unit,
// existing accounts, and debits equal to credits.
func ValidateJournalBalance(drafts []domain.JournalEntryDraft, accounts map[string]domain.Account, currency string) error {
	if len(drafts) < 2 {
		return apperrors.NewValidationError("entries", "journal must have at least two entries")
	}

	for i, d := range drafts {
		if d.Side != domain.Debit && d.Side != domain.Credit {
			return apperrors.NewValidationError("entries", "line %d has invalid side %q", i, d.Side)
		}
		if !d.Amount.IsPositive() {
			return apperrors.NewValidationError("entries", "line %d amount must be positive, got %s", i, d.Amount.String())
		}
		if err := ValidateScale(d.Amount, currency); err != nil {
			return err
		}
		if _, ok := accounts[d.AccountCode]; !ok {
			return apperrors.NewValidationError("entries", "unknown account code %s", d.AccountCode)
		}
	}

	debits, credits := Totals(drafts)
	if !debits.Equal(credits) {
		return apperrors.NewValidationError("entries", "debits %s do not equal credits %s", debits.String(), credits.String())
	}
	return nil
}

var minorUnits = map[string]int32{
	"JPY": 0, "KRW": 0, "VND": 0, "CLP": 0, "ISK": 0,
	"BHD": 3, "KWD": 3, "OMR": 3, "JOD": 3, "TND": 3,
}

// MinorUnits returns the number of decimal places of currency.
func MinorUnits(currency string) int32 {
	if units, ok := minorUnits[strings.ToUpper(currency)]; ok {
		return units
	}
	return 2
}

// ValidateScale rejects amounts finer than the currency's minor unit.
func ValidateScale(amount decimal.Decimal, currency string) error {
	units := MinorUnits(currency)
	if !amount.Equal(amount.Round(units)) {
		return apperrors.NewValidationError("amount", "%s has more than %d decimal places for %s", amount.String(), units, currency)
	}
	return nil
}

// AgentEffect folds the journal lines of one posting into the agent-facing
// running balance delta and the receivable-only delta. Positive means the
// agent owes more.
func AgentEffect(entries []domain.JournalEntry, accounts map[string]domain.Account) (balanceDelta, receivableDelta decimal.Decimal, err error) {
	balanceDelta, receivableDelta = decimal.Zero, decimal.Zero
	for _, e := range entries {
		receivable, agentFacing := domain.AgentFacingAccounts[e.AccountCode]
		if !agentFacing {
			continue
		}
		acc, ok := accounts[e.AccountCode]
		if !ok {
			return decimal.Zero, decimal.Zero, apperrors.NewNotFoundError("account " + e.AccountCode + " not found")
		}
		signed, err := CalculateSignedAmount(e.Side, e.Amount, acc.Type)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		// Payables grow on credit; the agent is then owed money, which lowers
		// what the agent owes.
		if acc.Type.NormalBalance() == domain.Credit {
			signed = signed.Neg()
		}
		balanceDelta = balanceDelta.Add(signed)
		if receivable {
			receivableDelta = receivableDelta.Add(signed)
		}
	}
	return balanceDelta, receivableDelta, nil
}
