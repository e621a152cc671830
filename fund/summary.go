package fund

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/shopspring/decimal"
)

type DonorTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type SectorCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type QuarterAmount struct {
	Quarter string          `json:"quarter"`
	Amount  decimal.Decimal `json:"amount"`
}

type FundSummary struct {
	FundId       int                   `json:"fund_id"`
	FundName     string                `json:"fund_name"`
	Status       models.ActivityStatus `json:"status"`
	DateRange    string                `json:"date_range"`
	Organization string                `json:"organization,omitempty"`

	TotalPledged       decimal.Decimal `json:"total_pledged"`
	TotalCommitted     decimal.Decimal `json:"total_committed"`
	TotalReceived      decimal.Decimal `json:"total_received"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalDisbursements decimal.Decimal `json:"total_disbursements"`
	Balance            decimal.Decimal `json:"balance"`

	DonorCount int `json:"donor_count"`
	ChildCount int `json:"child_count"`

	TopDonors  []DonorTotal    `json:"top_donors"`
	TopSectors []SectorCount   `json:"top_sectors"`
	Sparkline  []QuarterAmount `json:"sparkline"`
}

// GetFundSummary builds the dashboard KPIs for a pooled fund. It requires the
// activity to be flagged as a pooled fund; plain activities get ErrNotPooledFund.
func (s *Service) GetFundSummary(ctx context.Context, fundId int) (*FundSummary, error) {
	activity, err := s.activities.GetActivity(ctx, fundId)
	if err != nil {
		return nil, err
	}
	if !activity.IsPooledFund {
		return nil, ErrNotPooledFund
	}

	cacheKey := fmt.Sprintf("fundSummary:%d", fundId)
	if summaryCacheEnabled() {
		var cached FundSummary
		if ok, cerr := config.GetRedisObject(cacheKey, &cached); cerr == nil && ok {
			return &cached, nil
		}
	}

	children, err := s.ResolveChildren(ctx, fundId)
	if err != nil {
		return nil, err
	}

	var (
		fundTxns     []*models.Transaction
		childTxns    []*models.Transaction
		childSectors []*models.ActivitySector
		fundingOrg   *models.Organization
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
			childSectors, ferr = s.sectors.GetByActivities(ctx, children)
			return
		},
		func() error {
			if activity.ReportingOrganizationId == nil {
				return nil
			}
			org, oerr := s.organizations.GetOrganization(ctx, *activity.ReportingOrganizationId)
			if oerr != nil {
				// A dangling organization id degrades to a nameless summary.
				if errors.Is(oerr, ErrNotFound) {
					return nil
				}
				return oerr
			}
			fundingOrg = org
			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("load fund %d summary slices: %w", fundId, err)
	}

	summary := &FundSummary{
		FundId:         fundId,
		FundName:       activity.Title,
		Status:         activity.Status,
		DateRange:      activity.DateRange(),
		ChildCount:     len(children),
		TotalPledged:   decimal.Zero,
		TotalCommitted: decimal.Zero,
		TotalReceived:  decimal.Zero,
	}
	if fundingOrg != nil {
		summary.Organization = fundingOrg.Name
	}

	contributions := Contributions(fundTxns)
	for _, t := range contributions {
		switch t.TransactionType {
		case models.TransactionTypeIncomingPledge:
			summary.TotalPledged = summary.TotalPledged.Add(t.UsdAmount())
		case models.TransactionTypeIncomingCommitment:
			summary.TotalCommitted = summary.TotalCommitted.Add(t.UsdAmount())
		case models.TransactionTypeIncomingFunds:
			summary.TotalReceived = summary.TotalReceived.Add(t.UsdAmount())
		}
	}
	summary.TotalContributions = summary.TotalPledged.Add(summary.TotalCommitted).Add(summary.TotalReceived)

	// Either ledger may be the one that actually recorded the flow, so the
	// disbursement total takes the larger of the two sides.
	fundOutgoing := FundOutgoing(fundTxns)
	fundOutTotal := SumUSD(fundOutgoing)
	childInTotal := decimal.Zero
	for _, txns := range groupByActivity(childTxns) {
		childInTotal = childInTotal.Add(SumUSD(ChildIncomingFromFund(txns, fundId)))
	}
	summary.TotalDisbursements = decimal.Max(fundOutTotal, childInTotal)
	summary.Balance = summary.TotalContributions.Sub(summary.TotalDisbursements)

	summary.TopDonors, summary.DonorCount = topDonors(contributions)
	summary.TopSectors = topSectors(childSectors)
	summary.Sparkline = quarterlySeries(fundOutgoing)

	if summaryCacheEnabled() {
		if cerr := config.SetRedisObject(cacheKey, summary, summaryCacheTTL()); cerr != nil && s.logger != nil {
			config.LogError(s.logger, "fund", "GetFundSummary", "cache set", cacheKey, cerr)
		}
	}
	return summary, nil
}

// topDonors groups contributions by provider organization (name, falling back
// to ref) and returns the top 3 by USD total plus the distinct donor count.
func topDonors(contributions []*models.Transaction) ([]DonorTotal, int) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range contributions {
		name := t.ProviderOrgName
		if name == "" {
			name = t.ProviderOrgRef
		}
		if name == "" {
			continue
		}
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] = totals[name].Add(t.UsdAmount())
	}

	donors := make([]DonorTotal, 0, len(order))
	for _, name := range order {
		donors = append(donors, DonorTotal{Name: name, Total: totals[name]})
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].Total.GreaterThan(donors[j].Total)
	})
	count := len(donors)
	if len(donors) > 3 {
		donors = donors[:3]
	}
	return donors, count
}

// topSectors ranks child sectors by occurrence count (not financial weight)
// and returns the top 3.
func topSectors(sectors []*models.ActivitySector) []SectorCount {
	counts := make(map[string]*SectorCount)
	var order []string
	for _, sector := range sectors {
		name := sector.Name
		if name == "" {
			name = sector.Code
		}
		if name == "" {
			continue
		}
		if counts[name] == nil {
			counts[name] = &SectorCount{Name: name}
			order = append(order, name)
		}
		counts[name].Count++
	}

	ranked := make([]SectorCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, *counts[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// quarterlySeries buckets fund-outgoing transactions into "YYYY-Qn" keys,
// sorted ascending. Transactions with no usable date are skipped.
func quarterlySeries(fundOutgoing []*models.Transaction) []QuarterAmount {
	buckets := make(map[string]decimal.Decimal)
	for _, t := range fundOutgoing {
		date := t.Date()
		if date == nil {
			continue
		}
		key := utils.QuarterKey(*date)
		buckets[key] = buckets[key].Add(t.UsdAmount())
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]QuarterAmount, 0, len(keys))
	for _, key := range keys {
		series = append(series, QuarterAmount{Quarter: key, Amount: buckets[key]})
	}
	return series
}

func summaryCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_SUMMARY_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func summaryCacheTTL() time.Duration {
	// Env: SUMMARY_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("SUMMARY_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}
