package fund

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/models"
	"github.com/shopspring/decimal"
)

// fixture is an in-memory stand-in for the database so the engine can be
// exercised without a MySQL connection.
type fixture struct {
	activities []*models.Activity
	txns       []*models.Transaction
	edges      []*models.ActivityRelationship
	funded     map[int][]int
	sectors    []*models.ActivitySector
	orgs       map[int]*models.Organization
}

func (f *fixture) service() *Service {
	return NewService(
		fakeActivityStore{f},
		fakeTransactionStore{f},
		fakeRelationshipStore{f},
		fakeParticipationStore{f},
		fakeSectorStore{f},
		fakeOrganizationStore{f},
		nil,
		nil,
	)
}

type fakeActivityStore struct{ f *fixture }

func (s fakeActivityStore) GetActivity(ctx context.Context, id int) (*models.Activity, error) {
	for _, a := range s.f.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (s fakeActivityStore) GetActivities(ctx context.Context, ids []int) ([]*models.Activity, error) {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var results []*models.Activity
	for _, a := range s.f.activities {
		if wanted[a.ID] {
			results = append(results, a)
		}
	}
	return results, nil
}

func (s fakeActivityStore) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	results := append([]*models.Activity(nil), s.f.activities...)
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

type fakeTransactionStore struct{ f *fixture }

func (s fakeTransactionStore) GetByActivity(ctx context.Context, activityId int) ([]*models.Transaction, error) {
	var results []*models.Transaction
	for _, t := range s.f.txns {
		if t.ActivityId == activityId {
			results = append(results, t)
		}
	}
	return results, nil
}

func (s fakeTransactionStore) GetByActivities(ctx context.Context, activityIds []int) ([]*models.Transaction, error) {
	wanted := make(map[int]bool, len(activityIds))
	for _, id := range activityIds {
		wanted[id] = true
	}
	var results []*models.Transaction
	for _, t := range s.f.txns {
		if wanted[t.ActivityId] {
			results = append(results, t)
		}
	}
	return results, nil
}

func (s fakeTransactionStore) GetReferencing(ctx context.Context, activityId int) ([]*models.Transaction, error) {
	var results []*models.Transaction
	for _, t := range s.f.txns {
		provider := t.ProviderActivityId != nil && *t.ProviderActivityId == activityId
		receiver := t.ReceiverActivityId != nil && *t.ReceiverActivityId == activityId
		if provider || receiver {
			results = append(results, t)
		}
	}
	return results, nil
}

type fakeRelationshipStore struct{ f *fixture }

func (s fakeRelationshipStore) GetEdges(ctx context.Context, activityId int) ([]*models.ActivityRelationship, error) {
	var results []*models.ActivityRelationship
	for _, e := range s.f.edges {
		if e.ActivityId == activityId || e.RelatedActivityId == activityId {
			results = append(results, e)
		}
	}
	return results, nil
}

type fakeParticipationStore struct{ f *fixture }

func (s fakeParticipationStore) GetFundedActivityIds(ctx context.Context, organizationId int) ([]int, error) {
	return s.f.funded[organizationId], nil
}

type fakeOrganizationStore struct{ f *fixture }

func (s fakeOrganizationStore) GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	if org, ok := s.f.orgs[id]; ok {
		return org, nil
	}
	return nil, ErrNotFound
}

type fakeSectorStore struct{ f *fixture }

func (s fakeSectorStore) GetByActivities(ctx context.Context, activityIds []int) ([]*models.ActivitySector, error) {
	wanted := make(map[int]bool, len(activityIds))
	for _, id := range activityIds {
		wanted[id] = true
	}
	var results []*models.ActivitySector
	for _, sec := range s.f.sectors {
		if wanted[sec.ActivityId] {
			results = append(results, sec)
		}
	}
	return results, nil
}

func day(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func usd(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int { return &v }

var nextTxnId = 1000

func txn(activityId int, txType models.TransactionType, amount string, date *time.Time) *models.Transaction {
	nextTxnId++
	return &models.Transaction{
		ID:              nextTxnId,
		ActivityId:      activityId,
		TransactionType: txType,
		Value:           usd(amount),
		Currency:        "USD",
		TransactionDate: date,
	}
}
