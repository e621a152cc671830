package fund

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	confidenceProviderXref = 40
	confidenceReceiverXref = 30
	confidenceSharedFunder = 20
	confidenceTitleToken   = 10

	maxSuggestions    = 20
	maxTitleTokens    = 3
	minTitleTokenSize = 4
)

// Suggestion is advisory evidence that an unlinked activity is actually a
// child of the fund. Confirmation (writing the relationship edge) is a human
// action in the editing system; this engine never writes.
type Suggestion struct {
	ActivityId      int                   `json:"activity_id"`
	Title           string                `json:"title"`
	Status          models.ActivityStatus `json:"status"`
	Reasons         []string              `json:"reasons"`
	Confidence      int                   `json:"confidence"`
	FinancialAmount decimal.Decimal       `json:"financial_amount"`
}

type suggestionAccum struct {
	confidence int
	reasons    []string
	seen       map[string]bool
	amount     decimal.Decimal
}

func (a *suggestionAccum) addSignal(points int, reason string) {
	if a.seen[reason] {
		return
	}
	a.seen[reason] = true
	a.confidence += points
	a.reasons = append(a.reasons, reason)
}

// GetFundLinkSuggestions scores activities not yet linked to the fund using
// three independent signals: transaction cross-references, a shared funding
// organization, and fuzzy title overlap. Confidence is additive and capped at
// 100; results are the top 20 by confidence.
func (s *Service) GetFundLinkSuggestions(ctx context.Context, fundId int) ([]*Suggestion, error) {
	activity, err := s.activities.GetActivity(ctx, fundId)
	if err != nil {
		return nil, err
	}

	children, err := s.ResolveChildren(ctx, fundId)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int]bool, len(children)+1)
	excluded[fundId] = true
	for _, id := range children {
		excluded[id] = true
	}

	var (
		referencing []*models.Transaction
		fundedIds   []int
		activities  []*models.Activity
	)
	if err := fanOut(
		func() (ferr error) {
			referencing, ferr = s.transactions.GetReferencing(ctx, fundId)
			return
		},
		func() (ferr error) {
			if activity.ReportingOrganizationId == nil {
				return nil
			}
			fundedIds, ferr = s.participations.GetFundedActivityIds(ctx, *activity.ReportingOrganizationId)
			return
		},
		func() (ferr error) {
			activities, ferr = s.activities.ListActivities(ctx)
			return
		},
	); err != nil {
		return nil, fmt.Errorf("load link signals for fund %d: %w", fundId, err)
	}

	byId := make(map[int]*models.Activity, len(activities))
	for _, a := range activities {
		byId[a.ID] = a
	}

	accums := make(map[int]*suggestionAccum)
	var order []int
	accumFor := func(candidateId int) *suggestionAccum {
		if accums[candidateId] == nil {
			accums[candidateId] = &suggestionAccum{
				seen:   make(map[string]bool),
				amount: decimal.Zero,
			}
			order = append(order, candidateId)
		}
		return accums[candidateId]
	}

	// Signal 1: transactions cross-referencing the fund.
	for _, t := range referencing {
		if excluded[t.ActivityId] {
			continue
		}
		matched := false
		if utils.DereferencePtr(t.ProviderActivityId) == fundId {
			accumFor(t.ActivityId).addSignal(confidenceProviderXref, "references this fund as provider")
			matched = true
		}
		if utils.DereferencePtr(t.ReceiverActivityId) == fundId {
			accumFor(t.ActivityId).addSignal(confidenceReceiverXref, "references this fund as receiver")
			matched = true
		}
		if matched {
			accum := accumFor(t.ActivityId)
			accum.amount = accum.amount.Add(t.UsdAmount())
		}
	}

	// Signal 2: the fund's organization funds the candidate too.
	for _, candidateId := range fundedIds {
		if excluded[candidateId] {
			continue
		}
		accumFor(candidateId).addSignal(confidenceSharedFunder, "organisation is listed as a funding partner")
	}

	// Signal 3: fuzzy overlap with the fund's title.
	for _, token := range titleTokens(activity.Title) {
		for _, other := range activities {
			if excluded[other.ID] {
				continue
			}
			if !strings.Contains(strings.ToLower(other.Title), token) {
				continue
			}
			accumFor(other.ID).addSignal(confidenceTitleToken, fmt.Sprintf("title contains %q", token))
		}
	}

	suggestions := make([]*Suggestion, 0, len(order))
	for _, candidateId := range order {
		candidate := byId[candidateId]
		if candidate == nil {
			// Dangling cross-reference to a deleted activity.
			continue
		}
		accum := accums[candidateId]
		confidence := accum.confidence
		if confidence > 100 {
			confidence = 100
		}
		suggestions = append(suggestions, &Suggestion{
			ActivityId:      candidateId,
			Title:           candidate.Title,
			Status:          candidate.Status,
			Reasons:         accum.reasons,
			Confidence:      confidence,
			FinancialAmount: accum.amount,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}

// titleTokens extracts up to three lowercase keywords longer than three
// characters from a fund title.
func titleTokens(title string) []string {
	var tokens []string
	for _, word := range strings.Fields(title) {
		if len(word) < minTitleTokenSize {
			continue
		}
		tokens = append(tokens, strings.ToLower(word))
		if len(tokens) == maxTitleTokens {
			break
		}
	}
	return tokens
}
