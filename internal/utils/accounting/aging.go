package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type openItem struct {
	movement  domain.ReceivableMovement
	remaining decimal.Decimal
}

// ComputeAging nets receivable credits against open receivable debits and
// buckets what remains by age. A credit that reverses a specific
// transaction settles that transaction first; everything else is applied
// FIFO against the oldest open item. Credits with nothing left to settle
// are carried forward as unapplied credit and absorb later debits.
func ComputeAging(agentID string, movements []domain.ReceivableMovement, now time.Time) domain.OutstandingDetail {
	sorted := make([]domain.ReceivableMovement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	var open []*openItem
	unapplied := decimal.Zero

	for _, m := range sorted {
		switch {
		case m.Delta.IsPositive():
			item := &openItem{movement: m, remaining: m.Delta}
			if unapplied.IsPositive() {
				applied := decimal.Min(unapplied, item.remaining)
				item.remaining = item.remaining.Sub(applied)
				unapplied = unapplied.Sub(applied)
			}
			if item.remaining.IsPositive() {
				open = append(open, item)
			}
		case m.Delta.IsNegative():
			credit := m.Delta.Neg()
			if m.ReversesTransactionID != nil {
				for _, item := range open {
					if item.movement.TransactionLogID == *m.ReversesTransactionID {
						credit = settle(item, credit)
						break
					}
				}
			}
			for _, item := range open {
				if !credit.IsPositive() {
					break
				}
				credit = settle(item, credit)
			}
			unapplied = unapplied.Add(credit)
			open = compact(open)
		}
	}

	detail := domain.OutstandingDetail{
		AgentID:          agentID,
		TotalOutstanding: decimal.Zero,
		UnappliedCredit:  unapplied,
		Items:            make([]domain.OutstandingItem, 0, len(open)),
		AgingSummary:     make(map[string]decimal.Decimal, len(domain.AgingBuckets)),
		AsOf:             now,
	}
	for _, b := range domain.AgingBuckets {
		detail.AgingSummary[b] = decimal.Zero
	}

	for _, item := range open {
		days := DaysBetween(item.movement.CreatedAt, now)
		bucket := domain.BucketForAge(days)
		detail.Items = append(detail.Items, domain.OutstandingItem{
			TransactionLogID:  item.movement.TransactionLogID,
			TransactionNumber: item.movement.TransactionNumber,
			EventType:         item.movement.EventType,
			OriginalAmount:    item.movement.Delta,
			OpenAmount:        item.remaining,
			CreatedAt:         item.movement.CreatedAt,
			DaysOutstanding:   days,
			Bucket:            bucket,
		})
		detail.AgingSummary[bucket] = detail.AgingSummary[bucket].Add(item.remaining)
		detail.TotalOutstanding = detail.TotalOutstanding.Add(item.remaining)
	}
	return detail
}

// settle applies up to credit against item and returns the unused credit.
func settle(item *openItem, credit decimal.Decimal) decimal.Decimal {
	applied := decimal.Min(credit, item.remaining)
	item.remaining = item.remaining.Sub(applied)
	return credit.Sub(applied)
}

func compact(items []*openItem) []*openItem {
	kept := items[:0]
	for _, item := range items {
		if item.remaining.IsPositive() {
			kept = append(kept, item)
		}
	}
	return kept
}

// DaysBetween returns the number of whole days from since to now, never negative.
func DaysBetween(since, now time.Time) int {
	if now.Before(since) {
		return 0
	}
	return int(now.Sub(since).Hours() / 24)
}
