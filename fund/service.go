package fund

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Service computes pooled-fund reconciliation, summaries, and link
// suggestions. Every operation is a stateless, request-scoped read: working
// state lives in locals, never on the struct.
type Service struct {
	activities     ActivityStore
	transactions   TransactionStore
	relationships  RelationshipStore
	participations ParticipationStore
	sectors        SectorStore
	organizations  OrganizationStore
	matcher        Matcher
	logger         *logrus.Logger
}

func NewService(
	activities ActivityStore,
	transactions TransactionStore,
	relationships RelationshipStore,
	participations ParticipationStore,
	sectors SectorStore,
	organizations OrganizationStore,
	matcher Matcher,
	logger *logrus.Logger,
) *Service {
	if matcher == nil {
		matcher = NewGreedyMatcher()
	}
	return &Service{
		activities:     activities,
		transactions:   transactions,
		relationships:  relationships,
		participations: participations,
		sectors:        sectors,
		organizations:  organizations,
		matcher:        matcher,
		logger:         logger,
	}
}

// NewGormService wires the service against the shared GORM connection.
func NewGormService(logger *logrus.Logger) *Service {
	return NewService(
		gormActivityStore{},
		gormTransactionStore{},
		gormRelationshipStore{},
		gormParticipationStore{},
		gormSectorStore{},
		gormOrganizationStore{},
		NewGreedyMatcher(),
		logger,
	)
}

// fanOut runs independent fetches concurrently and joins at a barrier.
// All fetches run to completion; the first recorded error fails the whole
// operation. Partial results are never assembled from a failed fan-out.
func fanOut(fetches ...func() error) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(fetches))
	for _, fetch := range fetches {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				errCh <- err
			}
		}(fetch)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}
