package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tripweaver/backend/internal/domain"
)

type fakeConnector struct {
	name   string
	places []domain.Place
	err    error
	panics bool
	calls  int
}

func (f *fakeConnector) Name() string { return f.name }

func (f *fakeConnector) Fetch(ctx context.Context, query domain.Query) ([]domain.Place, error) {
	f.calls++
	if f.panics {
		panic("connector exploded")
	}
	return f.places, f.err
}

type fakeCache struct {
	stored map[string][]domain.Recommendation
	puts   int
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string][]domain.Recommendation)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]domain.Recommendation, error) {
	f.gets++
	if recs, ok := f.stored[key]; ok {
		return recs, nil
	}
	return nil, domain.ErrCacheMiss
}

func (f *fakeCache) Put(ctx context.Context, key string, recs []domain.Recommendation) error {
	f.puts++
	f.stored[key] = recs
	return nil
}

func place(name, source string) domain.Place {
	return domain.Place{Name: name, Source: source}
}

func testQuery() domain.Query {
	return domain.Query{Destination: "Shanghai", DailyBudget: 300, MaxResults: 20}
}

func TestAggregateMergesDuplicates(t *testing.T) {
	amapSide := &fakeConnector{
		name: domain.SourceAmap,
		places: []domain.Place{
			{Name: "Golden Phoenix", Source: domain.SourceAmap, Rating: 4.5, Category: "Cantonese"},
			place("River Tavern", domain.SourceAmap),
		},
	}
	blogSide := &fakeConnector{
		name: domain.SourceFoodBlog,
		places: []domain.Place{
			{
				Name:        "Golden Phoenix Restaurant",
				Source:      domain.SourceFoodBlog,
				Rating:      4.2,
				Description: "Celebrated Cantonese dining room famous for roast goose.",
				Specialties: []string{"Roast goose"},
			},
		},
	}

	agg := NewAggregator([]domain.Connector{amapSide, blogSide}, nil, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), testQuery())

	var merged *domain.Recommendation
	for i := range got {
		if got[i].MergeCount == 2 {
			merged = &got[i]
		}
	}
	if merged == nil {
		t.Fatalf("Aggregate() produced no merged record, results: %+v", got)
	}

	if len(merged.ContributingSources) != 2 {
		t.Errorf("merged ContributingSources = %v, want both sources", merged.ContributingSources)
	}
	if merged.Rating != 4.5 {
		t.Errorf("merged Rating = %v, want best rating 4.5", merged.Rating)
	}
	if merged.Description != "Celebrated Cantonese dining room famous for roast goose." {
		t.Errorf("merged Description = %q, want the longer member description", merged.Description)
	}

	found := false
	for _, s := range merged.Specialties {
		if s == "Roast goose" {
			found = true
		}
	}
	if !found {
		t.Errorf("merged Specialties = %v, want union including Roast goose", merged.Specialties)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	build := func() *Aggregator {
		c1 := &fakeConnector{name: domain.SourceAmap, places: []domain.Place{
			{Name: "Golden Phoenix", Source: domain.SourceAmap, Rating: 4.5},
			{Name: "River Tavern", Source: domain.SourceAmap, Rating: 4.1},
			{Name: "Dumpling House", Source: domain.SourceAmap, Rating: 4.3},
		}}
		c2 := &fakeConnector{name: domain.SourceFoodBlog, places: []domain.Place{
			{Name: "Golden Phoenix Restaurant", Source: domain.SourceFoodBlog, Rating: 4.0},
			{Name: "Noodle Corner", Source: domain.SourceFoodBlog, Rating: 4.2},
		}}
		return NewAggregator([]domain.Connector{c1, c2}, nil, nil, AggregatorConfig{})
	}

	first := build().Aggregate(context.Background(), testQuery())
	for i := 0; i < 5; i++ {
		again := build().Aggregate(context.Background(), testQuery())
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d results, first run returned %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].Name != first[j].Name || again[j].CompositeScore != first[j].CompositeScore {
				t.Fatalf("run %d diverged at %d: %s/%v vs %s/%v",
					i, j, again[j].Name, again[j].CompositeScore, first[j].Name, first[j].CompositeScore)
			}
		}
	}
}

func TestAggregateFallbackPadding(t *testing.T) {
	thin := &fakeConnector{name: domain.SourceAmap, places: []domain.Place{
		place("Golden Phoenix", domain.SourceAmap),
	}}
	fallback := &fakeConnector{name: domain.SourceAIFallback, places: []domain.Place{
		place("Synthetic One", domain.SourceAIFallback),
		place("Synthetic Two Manor", domain.SourceAIFallback),
	}}

	agg := NewAggregator([]domain.Connector{thin}, fallback, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), testQuery())

	if fallback.calls != 1 {
		t.Errorf("fallback called %d times, want 1 (pool below half of max)", fallback.calls)
	}
	if len(got) != 3 {
		t.Errorf("Aggregate() returned %d results, want 3 (1 real + 2 padding)", len(got))
	}
}

func TestAggregateFallbackNotUsedWhenPoolIsHealthy(t *testing.T) {
	places := make([]domain.Place, 0, 12)
	for i := 0; i < 12; i++ {
		places = append(places, place(fmt.Sprintf("Venue %c Plaza", 'A'+i), domain.SourceAmap))
	}
	healthy := &fakeConnector{name: domain.SourceAmap, places: places}
	fallback := &fakeConnector{name: domain.SourceAIFallback}

	agg := NewAggregator([]domain.Connector{healthy}, fallback, nil, AggregatorConfig{})
	agg.Aggregate(context.Background(), testQuery())

	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0 for a healthy pool", fallback.calls)
	}
}

func TestAggregateEmergencyListWhenEverythingFails(t *testing.T) {
	broken := &fakeConnector{name: domain.SourceAmap, err: errors.New("upstream down")}
	panicky := &fakeConnector{name: domain.SourceFoodBlog, panics: true}

	agg := NewAggregator([]domain.Connector{broken, panicky}, nil, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), testQuery())

	if len(got) == 0 {
		t.Fatal("Aggregate() returned nothing, want the emergency list")
	}
	for _, r := range got {
		if r.Source != domain.SourceEmergency {
			t.Errorf("emergency entry %q has source %q, want %q", r.Name, r.Source, domain.SourceEmergency)
		}
		if r.Name == "" || r.CompositeScore <= 0 {
			t.Errorf("emergency entry incomplete: %+v", r)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].CompositeScore > got[i-1].CompositeScore {
			t.Errorf("emergency list not sorted best-first: [%d]=%v > [%d]=%v (%q vs %q)",
				i, got[i].CompositeScore, i-1, got[i-1].CompositeScore, got[i].Name, got[i-1].Name)
		}
	}
}

func TestAggregatePanicIsolation(t *testing.T) {
	panicky := &fakeConnector{name: domain.SourceFoodBlog, panics: true}
	working := &fakeConnector{name: domain.SourceAmap, places: []domain.Place{
		place("Golden Phoenix", domain.SourceAmap),
	}}

	agg := NewAggregator([]domain.Connector{panicky, working}, nil, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), testQuery())

	if len(got) != 1 || got[0].Name != "Golden Phoenix" {
		t.Errorf("Aggregate() = %+v, want the surviving connector's record", got)
	}
}

func TestAggregateRespectsMaxResults(t *testing.T) {
	places := make([]domain.Place, 0, 20)
	for i := 0; i < 20; i++ {
		places = append(places, domain.Place{
			Name:   fmt.Sprintf("Venue %c Plaza", 'A'+i),
			Source: domain.SourceAmap,
			Rating: 3.0 + float64(i)*0.1,
		})
	}
	big := &fakeConnector{name: domain.SourceAmap, places: places}

	agg := NewAggregator([]domain.Connector{big}, nil, nil, AggregatorConfig{})
	query := testQuery()
	query.MaxResults = 5

	got := agg.Aggregate(context.Background(), query)
	if len(got) != 5 {
		t.Fatalf("Aggregate() returned %d results, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CompositeScore > got[i-1].CompositeScore {
			t.Errorf("results not sorted: [%d]=%v > [%d]=%v", i, got[i].CompositeScore, i-1, got[i-1].CompositeScore)
		}
	}
}

func TestAggregateCaching(t *testing.T) {
	connector := &fakeConnector{name: domain.SourceAmap, places: []domain.Place{
		place("Golden Phoenix", domain.SourceAmap),
	}}
	store := newFakeCache()

	agg := NewAggregator([]domain.Connector{connector}, nil, store, AggregatorConfig{})
	query := testQuery()

	first := agg.Aggregate(context.Background(), query)
	if store.puts != 1 {
		t.Fatalf("after first run, cache puts = %d, want 1", store.puts)
	}

	second := agg.Aggregate(context.Background(), query)
	if connector.calls != 1 {
		t.Errorf("connector called %d times, want 1 (second run served from cache)", connector.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs from original")
	}

	// A different budget is a different cache key.
	query.DailyBudget = 500
	agg.Aggregate(context.Background(), query)
	if connector.calls != 2 {
		t.Errorf("connector called %d times, want 2 after a distinct query", connector.calls)
	}
}

func TestAggregateDropsNamelessRecords(t *testing.T) {
	sloppy := &fakeConnector{name: domain.SourceAmap, places: []domain.Place{
		place("", domain.SourceAmap),
		place("Golden Phoenix", domain.SourceAmap),
	}}

	agg := NewAggregator([]domain.Connector{sloppy}, nil, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), testQuery())

	if len(got) != 1 || got[0].Name != "Golden Phoenix" {
		t.Errorf("Aggregate() = %+v, want only the named record", got)
	}
}

func TestEnrichDefaults(t *testing.T) {
	agg := NewAggregator(nil, nil, nil, AggregatorConfig{})
	query := testQuery()

	rec := domain.Recommendation{Place: place("Golden Phoenix", domain.SourceAmap)}
	agg.enrich(&rec, query)

	if rec.Description == "" || rec.Category == "" || rec.PriceRange == "" {
		t.Errorf("enrich left display fields empty: %+v", rec)
	}
	if rec.Rating != 4.0 {
		t.Errorf("enrich Rating = %v, want default 4.0", rec.Rating)
	}
	if rec.EstimatedCost != 300*0.8 {
		t.Errorf("enrich EstimatedCost = %v, want mid-range 0.8x daily budget", rec.EstimatedCost)
	}
	if !rec.BudgetFriendly {
		t.Error("enrich BudgetFriendly = false, want true for mid-range cost")
	}
}

func TestEnrichBudgetTiers(t *testing.T) {
	agg := NewAggregator(nil, nil, nil, AggregatorConfig{})
	query := testQuery()

	tests := []struct {
		tier     string
		wantCost float64
		friendly bool
	}{
		{domain.PriceBudget, 150, true},
		{domain.PriceMidRange, 240, true},
		{domain.PriceHighEnd, 450, false},
		{domain.PriceLuxury, 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			rec := domain.Recommendation{Place: domain.Place{
				Name:       "Golden Phoenix",
				Source:     domain.SourceAmap,
				PriceRange: tt.tier,
			}}
			agg.enrich(&rec, query)

			if rec.EstimatedCost != tt.wantCost {
				t.Errorf("EstimatedCost = %v, want %v", rec.EstimatedCost, tt.wantCost)
			}
			if rec.BudgetFriendly != tt.friendly {
				t.Errorf("BudgetFriendly = %v, want %v", rec.BudgetFriendly, tt.friendly)
			}
		})
	}
}

func TestAggregateThreeSourceScenario(t *testing.T) {
	// A healthy catalog source, a dead one, and a thinner web source whose
	// list overlaps the catalog on two venues under slightly different names.
	catalogNames := []string{
		"Jade Garden", "Lotus Pavilion", "Bund Brasserie", "Camellia House",
		"Dragon Well Kitchen", "East Nanjing Grill", "French Concession Deli",
		"Grand Sichuan", "Huangpu Noodle Bar", "Iron Pot Shack",
		"Kite Alley Dumplings", "Maple Court",
	}
	catalogPlaces := make([]domain.Place, 0, len(catalogNames))
	for _, name := range catalogNames {
		catalogPlaces = append(catalogPlaces, place(name, domain.SourceAmap))
	}
	catalog := &fakeConnector{name: domain.SourceAmap, places: catalogPlaces}
	dead := &fakeConnector{name: domain.SourceTourism, err: errors.New("timeout")}
	blog := &fakeConnector{name: domain.SourceFoodBlog, places: []domain.Place{
		place("Jade Garden Restaurant", domain.SourceFoodBlog),
		place("The Lotus Pavilion", domain.SourceFoodBlog),
		place("Riverside Congee", domain.SourceFoodBlog),
		place("Silk Road Kebab", domain.SourceFoodBlog),
		place("Temple Lane Teahouse", domain.SourceFoodBlog),
	}}

	agg := NewAggregator([]domain.Connector{catalog, dead, blog}, nil, nil, AggregatorConfig{})
	got := agg.Aggregate(context.Background(), domain.Query{
		Destination: "Shanghai",
		DailyBudget: 1000,
		MaxResults:  20,
	})

	if len(got) != 15 {
		t.Fatalf("Aggregate() returned %d results, want 15 (12 + 5 - 2 duplicates)", len(got))
	}

	merged := 0
	for _, r := range got {
		if r.MergeCount == 2 {
			merged++
			if len(r.ContributingSources) != 2 {
				t.Errorf("%q merged from %v, want two sources", r.Name, r.ContributingSources)
			}
		}
	}
	if merged != 2 {
		t.Errorf("found %d merged records, want exactly 2", merged)
	}
}

func TestFuseGroupSingletonIsIdentity(t *testing.T) {
	scorer := NewScorer(Weights{}, nil)
	p := domain.Place{
		Name:        "Golden Phoenix",
		Source:      domain.SourceAmap,
		Description: "Celebrated Cantonese dining room.",
		Category:    "Cantonese",
		Rating:      4.5,
		Specialties: []string{"Roast goose"},
	}

	once := fuseGroup(scorer, []domain.Place{p}, 300, 5)
	twice := fuseGroup(scorer, []domain.Place{once.Place}, 300, 5)

	if !reflect.DeepEqual(once.Place, twice.Place) {
		t.Errorf("fusing a singleton twice changed the record:\nonce:  %+v\ntwice: %+v", once.Place, twice.Place)
	}
	if once.MergeCount != 1 {
		t.Errorf("singleton MergeCount = %d, want 1", once.MergeCount)
	}
}
