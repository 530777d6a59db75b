package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// AggregatorConfig holds tuning knobs for one aggregation pipeline.
type AggregatorConfig struct {
	// Kind labels what is being aggregated ("restaurant", "attraction");
	// it appears in defaults and emergency entries.
	Kind string

	MaxResults          int
	ConnectorTimeout    time.Duration
	SimilarityThreshold float64
	// BudgetSlack widens the budget-friendly band: a place is budget
	// friendly while cost <= daily budget * slack.
	BudgetSlack        float64
	DescriptionMaxLen  int
	MaxSpecialties     int
	Weights            Weights
	SourceWeights      map[string]float64
	EnableDebugLogging bool
}

// Aggregator merges candidates from every configured connector into a
// deduplicated, enriched, scored and bounded recommendation list. One
// instance owns its connector list and cache; nothing is shared globally.
type Aggregator struct {
	connectors []domain.Connector
	fallback   domain.Connector
	cache      domain.RecommendationCache
	scorer     *Scorer
	cfg        AggregatorConfig
}

// NewAggregator creates an aggregation pipeline. fallback may be nil; it is
// only consulted when the regular connectors come up short.
func NewAggregator(
	connectors []domain.Connector,
	fallback domain.Connector,
	cache domain.RecommendationCache,
	cfg AggregatorConfig,
) *Aggregator {
	if cfg.Kind == "" {
		cfg.Kind = "restaurant"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.ConnectorTimeout <= 0 {
		cfg.ConnectorTimeout = 20 * time.Second
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.7
	}
	if cfg.BudgetSlack <= 0 {
		cfg.BudgetSlack = 1.2
	}
	if cfg.DescriptionMaxLen <= 0 {
		cfg.DescriptionMaxLen = 300
	}
	if cfg.MaxSpecialties <= 0 {
		cfg.MaxSpecialties = 5
	}

	return &Aggregator{
		connectors: connectors,
		fallback:   fallback,
		cache:      cache,
		scorer:     NewScorer(cfg.Weights, cfg.SourceWeights),
		cfg:        cfg,
	}
}

// Aggregate runs the full pipeline for one query. It never returns an
// error: connector failures shrink the candidate pool, and when everything
// fails the caller still receives a small generic emergency list.
func (a *Aggregator) Aggregate(ctx context.Context, query domain.Query) []domain.Recommendation {
	if query.MaxResults <= 0 {
		query.MaxResults = a.cfg.MaxResults
	}

	key := a.cacheKey(query)
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key); err == nil {
			if a.cfg.EnableDebugLogging {
				log.Printf("[AGG] cache hit for %q (%d %ss)", query.Destination, len(cached), a.cfg.Kind)
			}
			return truncate(cached, query.MaxResults)
		}
	}

	pool := a.fanOut(ctx, query)

	// Too few real candidates: pad the pool from the lowest-priority source.
	if len(pool) < query.MaxResults/2 && a.fallback != nil {
		padding := a.fetchFrom(ctx, a.fallback, query)
		pool = append(pool, padding...)
		log.Printf("[AGG] padded %s pool with %d fallback candidates for %q", a.cfg.Kind, len(padding), query.Destination)
	}

	if len(pool) == 0 {
		log.Printf("[AGG] WARNING: every %s source failed for %q, using emergency list", a.cfg.Kind, query.Destination)
		return a.emergencyList(query)
	}

	recs := a.process(pool, query)
	if len(recs) == 0 {
		return a.emergencyList(query)
	}

	recs = Rank(recs, query.MaxResults)

	if a.cache != nil {
		if err := a.cache.Put(ctx, key, recs); err != nil {
			log.Printf("[AGG] failed to cache %s results for %q: %v", a.cfg.Kind, query.Destination, err)
		}
	}

	log.Printf("[AGG] returning %d %s recommendations for %q", len(recs), a.cfg.Kind, query.Destination)
	return recs
}

// fanOut calls every connector in order, isolating per-connector failures.
func (a *Aggregator) fanOut(ctx context.Context, query domain.Query) []domain.Place {
	var pool []domain.Place
	for _, c := range a.connectors {
		places := a.fetchFrom(ctx, c, query)
		if a.cfg.EnableDebugLogging {
			log.Printf("[AGG] connector %s returned %d candidates for %q", c.Name(), len(places), query.Destination)
		}
		pool = append(pool, places...)
	}
	return pool
}

// fetchFrom runs one connector under a bounded timeout. Errors and panics
// are contained here: a failing source contributes nothing instead of
// aborting the aggregation.
func (a *Aggregator) fetchFrom(ctx context.Context, c domain.Connector, query domain.Query) (places []domain.Place) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[AGG] connector %s panicked: %v", c.Name(), r)
			places = nil
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.ConnectorTimeout)
	defer cancel()

	places, err := c.Fetch(fetchCtx, query)
	if err != nil {
		log.Printf("[AGG] connector %s failed: %v", c.Name(), err)
		return nil
	}

	// Drop records that violate the connector contract.
	valid := places[:0]
	for _, p := range places {
		if p.Name != "" {
			valid = append(valid, p)
		}
	}
	return valid
}

// process runs dedup, fusion, enrichment and scoring over the raw pool.
func (a *Aggregator) process(pool []domain.Place, query domain.Query) []domain.Recommendation {
	groups := a.groupCandidates(pool)

	recs := make([]domain.Recommendation, 0, len(groups))
	for _, group := range groups {
		recs = append(recs, fuseGroup(a.scorer, group, a.cfg.DescriptionMaxLen, a.cfg.MaxSpecialties))
	}

	if a.cfg.EnableDebugLogging {
		log.Printf("[AGG] deduplication: %d -> %d %ss", len(pool), len(recs), a.cfg.Kind)
	}

	for i := range recs {
		a.enrich(&recs[i], query)
		recs[i].QualityScore = a.scorer.Quality(recs[i].Place)
		recs[i].CompositeScore = a.scorer.Composite(recs[i])
	}

	return recs
}

// groupCandidates buckets candidates by name signature, then splits each
// bucket with the pairwise similarity check so unrelated names that happen
// to share a signature stay apart. Group order follows first appearance in
// the pool, which keeps the whole pipeline deterministic.
func (a *Aggregator) groupCandidates(pool []domain.Place) [][]domain.Place {
	type bucket struct {
		names  []string // cleaned name of each subgroup's first member
		groups [][]domain.Place
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, p := range pool {
		clean := CleanName(p.Name)
		sig := Signature(clean)

		b, ok := buckets[sig]
		if !ok {
			b = &bucket{}
			buckets[sig] = b
			order = append(order, sig)
		}

		matched := false
		for i, name := range b.names {
			if Similar(clean, name, a.cfg.SimilarityThreshold) {
				b.groups[i] = append(b.groups[i], p)
				matched = true
				break
			}
		}
		if !matched {
			b.names = append(b.names, clean)
			b.groups = append(b.groups, []domain.Place{p})
		}
	}

	var groups [][]domain.Place
	for _, sig := range order {
		groups = append(groups, buckets[sig].groups...)
	}
	return groups
}

// fuseGroup merges a duplicate group into one representative record. The
// highest provisionally-scored member becomes the base; the rest contribute
// specialties, a better description, the best rating and their source tags.
// Fusing a singleton group is the identity transform, so re-running fusion
// over its own output changes nothing.
func fuseGroup(scorer *Scorer, group []domain.Place, descMaxLen, maxSpecialties int) domain.Recommendation {
	base := group[0]
	bestScore := scorer.Provisional(base)
	for _, p := range group[1:] {
		if s := scorer.Provisional(p); s > bestScore {
			bestScore = s
			base = p
		}
	}

	rec := domain.Recommendation{Place: base, MergeCount: len(group)}

	// Union of specialties, first-seen order, capped.
	seen := make(map[string]bool)
	var specialties []string
	add := func(list []string) {
		for _, s := range list {
			if s != "" && !seen[s] {
				seen[s] = true
				specialties = append(specialties, s)
			}
		}
	}
	add(base.Specialties)
	for _, p := range group {
		add(p.Specialties)
	}
	if len(specialties) > maxSpecialties {
		specialties = specialties[:maxSpecialties]
	}
	rec.Specialties = specialties

	// Longest description under the cap wins.
	for _, p := range group {
		if len(p.Description) > len(rec.Description) && len(p.Description) < descMaxLen {
			rec.Description = p.Description
		}
	}

	// Highest rating and review count among members.
	for _, p := range group {
		if p.Rating > rec.Rating {
			rec.Rating = p.Rating
		}
		if p.ReviewCount > rec.ReviewCount {
			rec.ReviewCount = p.ReviewCount
		}
	}

	// Contributing sources, first-seen order.
	srcSeen := make(map[string]bool)
	for _, p := range group {
		src := p.Source
		if src == "" {
			src = "unknown"
		}
		if !srcSeen[src] {
			srcSeen[src] = true
			rec.ContributingSources = append(rec.ContributingSources, src)
		}
	}

	return rec
}

// enrich fills missing display fields with documented defaults and derives
// the budget-relative flags.
func (a *Aggregator) enrich(rec *domain.Recommendation, query domain.Query) {
	if rec.Description == "" {
		rec.Description = fmt.Sprintf("Popular %s in %s", a.cfg.Kind, query.Destination)
	}
	if rec.Category == "" {
		rec.Category = "Local"
	}
	if rec.PriceRange == "" {
		rec.PriceRange = domain.PriceMidRange
	}
	if rec.Rating == 0 {
		rec.Rating = 4.0
	}
	if len(rec.Specialties) == 0 {
		rec.Specialties = []string{rec.Category + " " + a.cfg.Kind}
	}
	if rec.Address == "" && rec.Location == "" {
		rec.Address = query.Destination
	}
	if rec.EstimatedCost == 0 {
		rec.EstimatedCost = priceTierCost(rec.PriceRange, query.DailyBudget)
	}

	if query.DailyBudget > 0 {
		rec.CostRatio = rec.EstimatedCost / query.DailyBudget
	} else {
		rec.CostRatio = 1.0
	}
	rec.BudgetFriendly = rec.EstimatedCost <= query.DailyBudget*a.cfg.BudgetSlack
}

// priceTierCost maps a price tier to a fraction of the daily budget.
func priceTierCost(priceRange string, dailyBudget float64) float64 {
	switch priceRange {
	case domain.PriceBudget:
		return dailyBudget * 0.5
	case domain.PriceMidRange:
		return dailyBudget * 0.8
	case domain.PriceHighEnd:
		return dailyBudget * 1.5
	case domain.PriceLuxury:
		return dailyBudget * 2.0
	default:
		return dailyBudget
	}
}

// emergencyList is the last-resort output when every source failed. The
// entries are generic but keep downstream report generation working.
func (a *Aggregator) emergencyList(query domain.Query) []domain.Recommendation {
	kinds := []struct {
		suffix   string
		category string
		tier     string
		costMult float64
	}{
		{"Traditional " + a.cfg.Kind, "Local Traditional", domain.PriceMidRange, 0.8},
		{"Street Market", "Street Food", domain.PriceBudget, 0.4},
		{"Cafe", "Cafe", domain.PriceMidRange, 0.6},
		{"Quick Stop", "Fast Food", domain.PriceBudget, 0.3},
		{"Fine " + a.cfg.Kind, "Fine Dining", domain.PriceHighEnd, 1.5},
	}

	recs := make([]domain.Recommendation, 0, len(kinds))
	for i, k := range kinds {
		cost := query.DailyBudget * k.costMult
		recs = append(recs, domain.Recommendation{
			Place: domain.Place{
				Name:          fmt.Sprintf("%s %s", query.Destination, k.suffix),
				Source:        domain.SourceEmergency,
				Description:   fmt.Sprintf("A well-regarded %s option in %s.", k.category, query.Destination),
				Category:      k.category,
				PriceRange:    k.tier,
				Rating:        4.0 + float64(i)*0.1,
				Specialties:   []string{k.category},
				EstimatedCost: cost,
				Address:       query.Destination,
				RetrievedAt:   time.Now(),
			},
			ContributingSources: []string{domain.SourceEmergency},
			MergeCount:          1,
			CompositeScore:      30.0 + float64(i)*5,
			BudgetFriendly:      k.costMult <= 1.0,
			CostRatio:           k.costMult,
		})
	}
	return Rank(recs, query.MaxResults)
}

// cacheKey derives a stable key from destination, budget and coordinates.
func (a *Aggregator) cacheKey(query domain.Query) string {
	coords := query.Coordinates
	if coords == "" {
		coords = "no_coords"
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.2f|%s", a.cfg.Kind, query.Destination, query.DailyBudget, coords)))
	return hex.EncodeToString(sum[:])
}

func truncate(recs []domain.Recommendation, max int) []domain.Recommendation {
	if max > 0 && len(recs) > max {
		return recs[:max]
	}
	return recs
}
