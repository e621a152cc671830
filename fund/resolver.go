package fund

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/mmdatafocus/aims_backend/models"
)

// ResolveChildren returns the distinct child activity ids declared for a fund:
// the union of edges where the fund declares a child (type 1) and edges where
// another activity declares the fund as its parent (type 2). The fund itself
// is never included and children of children are not followed. An empty result
// is a valid, fully-reconciled state, not an error.
func (s *Service) ResolveChildren(ctx context.Context, fundId int) ([]int, error) {
	edges, err := s.relationships.GetEdges(ctx, fundId)
	if err != nil {
		return nil, fmt.Errorf("resolve children of activity %d: %w", fundId, err)
	}

	seen := make(map[int]bool)
	for _, edge := range edges {
		switch edge.RelationshipType {
		case models.RelationshipTypeChild:
			if edge.ActivityId == fundId {
				seen[edge.RelatedActivityId] = true
			}
		case models.RelationshipTypeParent:
			if edge.RelatedActivityId == fundId {
				seen[edge.ActivityId] = true
			}
		}
	}
	delete(seen, fundId)

	children := make([]int, 0, len(seen))
	for id := range seen {
		children = append(children, id)
	}
	// Stable order keeps downstream matching deterministic.
	sort.Ints(children)
	return children, nil
}
