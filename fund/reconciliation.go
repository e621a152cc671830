package fund

import (
	"context"
	"fmt"
	"math"
	"sort"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"github.com/shopspring/decimal"
)

type ChildReconciliation struct {
	ActivityId int                   `json:"activity_id"`
	Title      string                `json:"title"`
	Status     models.ActivityStatus `json:"status"`

	FundTotal  decimal.Decimal `json:"fund_total"`
	ChildTotal decimal.Decimal `json:"child_total"`
	// Discrepancy is the signed fundTotal - childTotal over the full working
	// lists, independent of the per-pass figures.
	Discrepancy decimal.Decimal `json:"discrepancy"`

	MatchResult
}

type ReconciliationSummary struct {
	TotalMatched        decimal.Decimal `json:"total_matched"`
	TotalDiscrepancy    decimal.Decimal `json:"total_discrepancy"`
	PercentReconciled   int             `json:"percent_reconciled"`
	MatchedCount        int             `json:"matched_count"`
	MismatchCount       int             `json:"mismatch_count"`
	UnmatchedFundCount  int             `json:"unmatched_fund_count"`
	UnmatchedChildCount int             `json:"unmatched_child_count"`
}

type FundReconciliation struct {
	FundId   int                    `json:"fund_id"`
	FundName string                 `json:"fund_name"`
	Children []*ChildReconciliation `json:"children"`
	Summary  ReconciliationSummary  `json:"summary"`
}

// GetFundReconciliation cross-matches the fund's outgoing ledger against each
// resolved child's incoming ledger. A fund with no children or no transactions
// is vacuously reconciled (100%), not an error.
func (s *Service) GetFundReconciliation(ctx context.Context, fundId int) (*FundReconciliation, error) {
	activity, err := s.activities.GetActivity(ctx, fundId)
	if err != nil {
		return nil, err
	}

	children, err := s.ResolveChildren(ctx, fundId)
	if err != nil {
		return nil, err
	}

	var (
		fundTxns        []*models.Transaction
		childTxns       []*models.Transaction
		childActivities []*models.Activity
	)
	if err := fanOut(
		func() (ferr error) {
			fundTxns, ferr = s.transactions.GetByActivity(ctx, fundId)
			return
		},
		func() (ferr error) {
			childTxns, ferr = s.transactions.GetByActivities(ctx, children)
			return
		},
		func() (ferr error) {
			childActivities, ferr = s.activities.GetActivities(ctx, children)
			return
		},
	); err != nil {
		return nil, fmt.Errorf("load fund %d ledgers: %w", fundId, err)
	}

	fundOutgoing := FundOutgoing(fundTxns)
	childTxnsById := groupByActivity(childTxns)
	titles := make(map[int]*models.Activity, len(childActivities))
	for _, child := range childActivities {
		titles[child.ID] = child
	}

	report := &FundReconciliation{
		FundId:   fundId,
		FundName: activity.Title,
		Children: []*ChildReconciliation{},
		Summary: ReconciliationSummary{
			TotalMatched:     decimal.Zero,
			TotalDiscrepancy: decimal.Zero,
		},
	}

	for _, childId := range children {
		fundSide := restrictToChild(fundOutgoing, childId)
		childSide := ChildIncomingFromFund(childTxnsById[childId], fundId)
		if len(fundSide) == 0 && len(childSide) == 0 {
			continue
		}

		matched := s.matcher.Match(fundSide, childSide)

		child := &ChildReconciliation{
			ActivityId:  childId,
			FundTotal:   SumUSD(fundSide),
			ChildTotal:  SumUSD(childSide),
			MatchResult: matched,
		}
		child.Discrepancy = child.FundTotal.Sub(child.ChildTotal)
		if a := titles[childId]; a != nil {
			child.Title = a.Title
			child.Status = a.Status
		}
		report.Children = append(report.Children, child)

		report.Summary.TotalMatched = report.Summary.TotalMatched.Add(matched.TotalMatched)
		report.Summary.TotalDiscrepancy = report.Summary.TotalDiscrepancy.Add(matched.TotalDiscrepancy)
		report.Summary.MatchedCount += matched.MatchedCount
		report.Summary.MismatchCount += matched.MismatchCount
		report.Summary.UnmatchedFundCount += matched.UnmatchedFundCount
		report.Summary.UnmatchedChildCount += matched.UnmatchedChildCount
	}

	// Worst discrepancies first; ties stay in child-id order.
	sort.SliceStable(report.Children, func(i, j int) bool {
		return report.Children[i].Discrepancy.Abs().GreaterThan(report.Children[j].Discrepancy.Abs())
	})

	report.Summary.PercentReconciled = percentReconciled(report.Summary)
	return report, nil
}

// restrictToChild picks the fund-outgoing candidates for one child. A
// transaction cross-referencing a receiver activity belongs to that child
// alone; transactions without a cross-reference stay candidates for every
// child so publishers who never record the link still reconcile.
func restrictToChild(fundOutgoing []*models.Transaction, childId int) []*models.Transaction {
	var candidates []*models.Transaction
	for _, t := range fundOutgoing {
		if t.ReceiverActivityId == nil || *t.ReceiverActivityId == childId {
			candidates = append(candidates, t)
		}
	}
	return candidates
}

func percentReconciled(s ReconciliationSummary) int {
	total := s.MatchedCount + s.MismatchCount + s.UnmatchedFundCount + s.UnmatchedChildCount
	if total == 0 {
		// A fund with nothing on either side is not broken.
		return 100
	}
	return int(math.Round(float64(s.MatchedCount) / float64(total) * 100))
}
