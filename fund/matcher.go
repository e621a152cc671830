package fund

import (
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/shopspring/decimal"
)

type MatchStatus string

const (
	MatchStatusMatched        MatchStatus = "matched"
	MatchStatusAmountMismatch MatchStatus = "amount_mismatch"
	MatchStatusUnmatchedFund  MatchStatus = "unmatched_fund"
	MatchStatusUnmatchedChild MatchStatus = "unmatched_child"
)

// MatchPair is one reconciliation line item. Exactly one side is set for the
// unmatched statuses.
type MatchPair struct {
	Status             MatchStatus     `json:"status"`
	FundTransactionId  *int            `json:"fund_transaction_id,omitempty"`
	ChildTransactionId *int            `json:"child_transaction_id,omitempty"`
	FundAmount         decimal.Decimal `json:"fund_amount"`
	ChildAmount        decimal.Decimal `json:"child_amount"`
	FundDate           *time.Time      `json:"fund_date,omitempty"`
	ChildDate          *time.Time      `json:"child_date,omitempty"`
	Discrepancy        decimal.Decimal `json:"discrepancy"`
}

type MatchResult struct {
	Pairs               []MatchPair     `json:"pairs"`
	TotalMatched        decimal.Decimal `json:"total_matched"`
	TotalDiscrepancy    decimal.Decimal `json:"total_discrepancy"`
	MatchedCount        int             `json:"matched_count"`
	MismatchCount       int             `json:"mismatch_count"`
	UnmatchedFundCount  int             `json:"unmatched_fund_count"`
	UnmatchedChildCount int             `json:"unmatched_child_count"`
}

// Matcher pairs a fund's outgoing transactions against a child's incoming
// transactions. Implementations must be deterministic given deterministic
// input order. The interface exists so the greedy heuristic can later be
// replaced by an optimal assignment without changing the public contract.
type Matcher interface {
	Match(fundTxns, childTxns []*models.Transaction) MatchResult
}

// GreedyMatcher is a first-fit, no-backtracking matcher with an amount
// tolerance and a date tolerance window. It is explainable and deterministic
// but not a globally minimal-cost assignment.
type GreedyMatcher struct {
	AmountTolerance   decimal.Decimal
	DateToleranceDays int
}

func NewGreedyMatcher() *GreedyMatcher {
	return &GreedyMatcher{
		AmountTolerance:   decimal.NewFromFloat(0.01),
		DateToleranceDays: 7,
	}
}

type workingTxn struct {
	txn     *models.Transaction
	matched bool
}

func newWorkingList(txns []*models.Transaction) []*workingTxn {
	list := make([]*workingTxn, 0, len(txns))
	for _, t := range txns {
		list = append(list, &workingTxn{txn: t})
	}
	return list
}

// Match runs three ordered passes:
//  1. exact: amount within tolerance AND date within the window
//  2. amount mismatch: date within the window, amount ignored
//  3. leftovers on both sides
func (m *GreedyMatcher) Match(fundTxns, childTxns []*models.Transaction) MatchResult {
	fundList := newWorkingList(fundTxns)
	childList := newWorkingList(childTxns)

	result := MatchResult{
		TotalMatched:     decimal.Zero,
		TotalDiscrepancy: decimal.Zero,
	}

	// Pass 1: exact matches.
	for _, ft := range fundList {
		for _, ct := range childList {
			if ct.matched {
				continue
			}
			if !m.amountsAgree(ft.txn, ct.txn) || !m.datesAgree(ft.txn, ct.txn) {
				continue
			}
			ft.matched = true
			ct.matched = true
			result.Pairs = append(result.Pairs, MatchPair{
				Status:             MatchStatusMatched,
				FundTransactionId:  &ft.txn.ID,
				ChildTransactionId: &ct.txn.ID,
				FundAmount:         ft.txn.UsdAmount(),
				ChildAmount:        ct.txn.UsdAmount(),
				FundDate:           ft.txn.Date(),
				ChildDate:          ct.txn.Date(),
				Discrepancy:        decimal.Zero,
			})
			result.TotalMatched = result.TotalMatched.Add(ft.txn.UsdAmount())
			result.MatchedCount++
			break
		}
	}

	// Pass 2: date agrees but amounts differ.
	for _, ft := range fundList {
		if ft.matched {
			continue
		}
		for _, ct := range childList {
			if ct.matched {
				continue
			}
			if !m.datesAgree(ft.txn, ct.txn) {
				continue
			}
			ft.matched = true
			ct.matched = true
			discrepancy := ft.txn.UsdAmount().Sub(ct.txn.UsdAmount())
			result.Pairs = append(result.Pairs, MatchPair{
				Status:             MatchStatusAmountMismatch,
				FundTransactionId:  &ft.txn.ID,
				ChildTransactionId: &ct.txn.ID,
				FundAmount:         ft.txn.UsdAmount(),
				ChildAmount:        ct.txn.UsdAmount(),
				FundDate:           ft.txn.Date(),
				ChildDate:          ct.txn.Date(),
				Discrepancy:        discrepancy,
			})
			result.TotalDiscrepancy = result.TotalDiscrepancy.Add(discrepancy.Abs())
			result.MismatchCount++
			break
		}
	}

	// Pass 3: leftovers on both sides.
	for _, ft := range fundList {
		if ft.matched {
			continue
		}
		result.Pairs = append(result.Pairs, MatchPair{
			Status:            MatchStatusUnmatchedFund,
			FundTransactionId: &ft.txn.ID,
			FundAmount:        ft.txn.UsdAmount(),
			FundDate:          ft.txn.Date(),
			Discrepancy:       ft.txn.UsdAmount(),
		})
		result.TotalDiscrepancy = result.TotalDiscrepancy.Add(ft.txn.UsdAmount().Abs())
		result.UnmatchedFundCount++
	}
	for _, ct := range childList {
		if ct.matched {
			continue
		}
		result.Pairs = append(result.Pairs, MatchPair{
			Status:             MatchStatusUnmatchedChild,
			ChildTransactionId: &ct.txn.ID,
			ChildAmount:        ct.txn.UsdAmount(),
			ChildDate:          ct.txn.Date(),
			Discrepancy:        ct.txn.UsdAmount(),
		})
		result.TotalDiscrepancy = result.TotalDiscrepancy.Add(ct.txn.UsdAmount().Abs())
		result.UnmatchedChildCount++
	}

	return result
}

func (m *GreedyMatcher) amountsAgree(a, b *models.Transaction) bool {
	return a.UsdAmount().Sub(b.UsdAmount()).Abs().LessThan(m.AmountTolerance)
}

func (m *GreedyMatcher) datesAgree(a, b *models.Transaction) bool {
	return utils.WithinDays(a.Date(), b.Date(), m.DateToleranceDays)
}
