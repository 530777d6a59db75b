package usecase

import (
	"unicode"

	"github.com/tripweaver/backend/internal/domain"
)

// Weights holds the hand-tuned scoring weights. They are configuration, not
// constants: callers may rebalance them without touching the pipeline.
type Weights struct {
	// Provisional score, used to pick the base record of a duplicate group.
	GroupSource       float64
	GroupCompleteness float64
	GroupRating       float64
	GroupReviews      float64

	// Composite score components (sum to the 0-100 ceiling).
	Reliability  float64
	Rating       float64
	Completeness float64
	BudgetFit    float64
	Reviews      float64
	Quality      float64
}

// DefaultWeights returns the reference weighting.
func DefaultWeights() Weights {
	return Weights{
		GroupSource:       40,
		GroupCompleteness: 30,
		GroupRating:       20,
		GroupReviews:      10,

		Reliability:  25,
		Rating:       20,
		Completeness: 20,
		BudgetFit:    15,
		Reviews:      10,
		Quality:      10,
	}
}

// DefaultSourceWeights returns the reliability weight per source tag.
// Unknown tags score the middle of the range.
func DefaultSourceWeights() map[string]float64 {
	return map[string]float64{
		domain.SourceAmap:       1.0,
		"tripadvisor":           0.9,
		domain.SourceTourism:    0.8,
		domain.SourceFoodBlog:   0.7,
		domain.SourceSearch:     0.6,
		domain.SourceAIFallback: 0.3,
		domain.SourceEmergency:  0.1,
	}
}

const defaultSourceWeight = 0.5

// Scorer computes provisional, quality and composite scores for places.
type Scorer struct {
	weights       Weights
	sourceWeights map[string]float64
}

// NewScorer creates a scorer. Zero-value weights fall back to the defaults.
func NewScorer(weights Weights, sourceWeights map[string]float64) *Scorer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if sourceWeights == nil {
		sourceWeights = DefaultSourceWeights()
	}
	return &Scorer{weights: weights, sourceWeights: sourceWeights}
}

// SourceWeight returns the reliability weight for a source tag.
func (s *Scorer) SourceWeight(source string) float64 {
	if w, ok := s.sourceWeights[source]; ok {
		return w
	}
	return defaultSourceWeight
}

// Provisional ranks members of a duplicate group so the most trustworthy,
// most complete record becomes the fusion base.
func (s *Scorer) Provisional(p domain.Place) float64 {
	score := s.SourceWeight(p.Source) * s.weights.GroupSource
	score += groupCompleteness(p) * s.weights.GroupCompleteness

	if p.Rating > 0 {
		score += (p.Rating / 5.0) * s.weights.GroupRating
	}
	if p.ReviewCount > 0 {
		score += reviewFactor(p.ReviewCount) * s.weights.GroupReviews
	}

	return score
}

// Quality scores a single record 0-100 from its own content: name shape,
// description length, rating, source reputation, field completeness and
// review volume.
func (s *Scorer) Quality(p domain.Place) float64 {
	score := 0.0

	// Name quality (0-20)
	nameRunes := []rune(p.Name)
	if len(nameRunes) > 2 {
		score += 10
	}
	if len(nameRunes) > 5 {
		score += 5
	}
	if !containsDigit(p.Name) {
		score += 5
	}

	// Description quality (0-15)
	descRunes := len([]rune(p.Description))
	if descRunes > 20 {
		score += 10
	}
	if descRunes > 50 {
		score += 5
	}

	// Rating (0-25)
	if p.Rating > 0 {
		score += (p.Rating / 5.0) * 25
	}

	// Source reputation (0-20)
	score += s.SourceWeight(p.Source) * 20

	// Field completeness (0-20)
	fields := 0
	total := 4
	if p.Category != "" {
		fields++
	}
	if p.PriceRange != "" {
		fields++
	}
	if len(p.Specialties) > 0 {
		fields++
	}
	if p.Address != "" || p.Location != "" {
		fields++
	}
	score += float64(fields) / float64(total) * 20

	// Review count bonus (0-10)
	if p.ReviewCount > 0 {
		score += reviewFactor(p.ReviewCount) * 10
	}

	return clampScore(score)
}

// Composite combines reliability, rating, completeness, budget fit, review
// volume and the per-record quality score into the final 0-100 ranking value.
func (s *Scorer) Composite(r domain.Recommendation) float64 {
	score := s.SourceWeight(r.Source) * s.weights.Reliability

	if r.Rating > 0 {
		score += (r.Rating / 5.0) * s.weights.Rating
	}

	score += compositeCompleteness(r.Place) * s.weights.Completeness
	score += s.budgetFit(r)

	if r.ReviewCount > 0 {
		score += reviewFactor(r.ReviewCount) * s.weights.Reviews
	}
	if r.QualityScore > 0 {
		score += (r.QualityScore / 100.0) * s.weights.Quality
	}

	return clampScore(score)
}

// budgetFit awards the full bonus within budget, then steps down at 1.5x
// and 2.0x over before dropping to zero.
func (s *Scorer) budgetFit(r domain.Recommendation) float64 {
	switch {
	case r.BudgetFriendly:
		return s.weights.BudgetFit
	case r.CostRatio <= 1.5:
		return s.weights.BudgetFit * (2.0 / 3.0)
	case r.CostRatio <= 2.0:
		return s.weights.BudgetFit * (1.0 / 3.0)
	default:
		return 0
	}
}

// groupCompleteness is the fraction of display fields present, over the
// field set used for base selection.
func groupCompleteness(p domain.Place) float64 {
	fields := 0
	total := 5
	if p.Description != "" {
		fields++
	}
	if p.Category != "" {
		fields++
	}
	if p.PriceRange != "" {
		fields++
	}
	if len(p.Specialties) > 0 {
		fields++
	}
	if p.Rating > 0 {
		fields++
	}
	return float64(fields) / float64(total)
}

// compositeCompleteness uses the wider field set, including contact and
// location details, for the final score.
func compositeCompleteness(p domain.Place) float64 {
	fields := 0
	total := 6
	if p.Description != "" {
		fields++
	}
	if p.Category != "" {
		fields++
	}
	if p.PriceRange != "" {
		fields++
	}
	if len(p.Specialties) > 0 {
		fields++
	}
	if p.Address != "" {
		fields++
	}
	if p.Location != "" {
		fields++
	}
	return float64(fields) / float64(total)
}

func reviewFactor(count int) float64 {
	f := float64(count) / 100.0
	if f > 1 {
		f = 1
	}
	return f
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
