package usecase

import (
	"sort"

	"github.com/tripweaver/backend/internal/domain"
)

// Rank sorts recommendations by composite score, best first, and truncates
// to max. The sort is stable so ties keep their insertion order and repeated
// runs over identical input produce identical output.
func Rank(recs []domain.Recommendation, max int) []domain.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompositeScore > recs[j].CompositeScore
	})

	if max > 0 && len(recs) > max {
		recs = recs[:max]
	}
	return recs
}
