package fund

import (
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/shopspring/decimal"
)

// Classification of normalized transaction slices per IATI semantics.
// Amount normalization lives on the model (Transaction.UsdAmount): value_usd
// when converted, raw value as the accepted fallback, zero when absent.

// FundOutgoing selects the fund-side outgoing set: outgoing commitments and
// disbursements recorded on the fund activity.
func FundOutgoing(txns []*models.Transaction) []*models.Transaction {
	var out []*models.Transaction
	for _, t := range txns {
		if t.Kind() == models.KindOutgoing {
			out = append(out, t)
		}
	}
	return out
}

// ChildIncomingFromFund selects incoming funds/commitments on a child that
// explicitly cross-reference the fund as provider. An incoming transaction
// from an unrelated provider is excluded.
func ChildIncomingFromFund(txns []*models.Transaction, fundId int) []*models.Transaction {
	var in []*models.Transaction
	for _, t := range txns {
		if t.Kind() != models.KindIncoming {
			continue
		}
		if utils.DereferencePtr(t.ProviderActivityId) != fundId {
			continue
		}
		in = append(in, t)
	}
	return in
}

// Contributions selects the fund-level contribution set: incoming pledges,
// commitments, and funds recorded on the fund itself.
func Contributions(txns []*models.Transaction) []*models.Transaction {
	var in []*models.Transaction
	for _, t := range txns {
		if t.IsContribution() {
			in = append(in, t)
		}
	}
	return in
}

// SumUSD totals the normalized USD amounts of a slice. Malformed amounts
// contribute zero rather than failing the aggregate.
func SumUSD(txns []*models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.UsdAmount())
	}
	return total
}

// groupByActivity indexes transactions by their owning activity.
func groupByActivity(txns []*models.Transaction) map[int][]*models.Transaction {
	grouped := make(map[int][]*models.Transaction)
	for _, t := range txns {
		grouped[t.ActivityId] = append(grouped[t.ActivityId], t)
	}
	return grouped
}
