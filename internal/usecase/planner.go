package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tripweaver/backend/internal/domain"
)

// Plan tiers, cheapest first. Each tier maps to a budget split and a stay
// preference.
var planTiers = []struct {
	planType  string
	split     string
	title     string
	stayIndex int // index into the nightly-rate-sorted stay list
}{
	{"economic", "economic", "Economic Plan", 0},
	{"comfort", "comfort", "Comfort Plan", 1},
	{"premium", "luxury", "Premium Plan", 2},
}

const (
	diningPicksPerPlan     = 5
	attractionPicksPerPlan = 6
)

var dayLineRegex = regexp.MustCompile(`(?im)^\s*(?:day|第)\s*(\d+)\s*[:.天]\s*(.+)$`)

// TripService turns a trip request into budget-tiered travel plans.
type TripService struct {
	collector *Collector
	budget    *BudgetPlanner
	gen       domain.TextGenerator
	now       func() time.Time
}

// NewTripService wires the planning service. gen may be nil; itineraries
// then come from the deterministic fallback generator.
func NewTripService(collector *Collector, budget *BudgetPlanner, gen domain.TextGenerator) *TripService {
	if budget == nil {
		budget = NewBudgetPlanner()
	}
	return &TripService{
		collector: collector,
		budget:    budget,
		gen:       gen,
		now:       time.Now,
	}
}

// Plan validates the request, collects destination data and assembles three
// plan variants. Only request validation can fail; data collection and plan
// assembly degrade instead of erroring.
func (s *TripService) Plan(ctx context.Context, req domain.TripRequest) (*domain.TripPlanResult, error) {
	if req.Destination == "" || req.Days < 1 || req.Budget <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	start, err := ParseStartDate(req.StartDate, s.now())
	if err != nil {
		log.Printf("[PLAN] unparseable start date %q, defaulting to tomorrow: %v", req.StartDate, err)
		start = midnight(s.now()).AddDate(0, 0, 1)
	}

	data := s.collector.Collect(ctx, req, start)

	plans := make([]domain.TravelPlan, 0, len(planTiers))
	for _, tier := range planTiers {
		plans = append(plans, s.buildPlan(ctx, req, start, data, tier.planType, tier.split, tier.title, tier.stayIndex))
	}

	return &domain.TripPlanResult{
		Request:     req,
		StartDate:   start.Format(isoDate),
		Data:        data,
		Plans:       plans,
		GeneratedAt: s.now(),
	}, nil
}

func (s *TripService) buildPlan(
	ctx context.Context,
	req domain.TripRequest,
	start time.Time,
	data domain.TravelData,
	planType, split, title string,
	stayIndex int,
) domain.TravelPlan {
	allocations := s.budget.Allocate(req.Budget, req.Days, split)

	plan := domain.TravelPlan{
		ID:          uuid.NewString(),
		Type:        planType,
		Title:       title,
		Allocations: allocations,
		Attractions: topRecommendations(data.Attractions, attractionPicksPerPlan),
	}

	plan.Dining = pickDining(data.Dining, planType)
	plan.Accommodation = pickStay(data.Accommodations, stayIndex)
	plan.Transport = pickTransport(data.Transport, planType)
	plan.Itinerary = s.buildItinerary(ctx, req, start, plan)
	plan.EstimatedTotal = estimateTotal(req, plan)

	return plan
}

// pickDining prefers budget-friendly venues for the economic tier and the
// highest-scored venues otherwise. The input is already sorted best-first.
func pickDining(dining []domain.Recommendation, planType string) []domain.Recommendation {
	if planType == "economic" {
		friendly := lo.Filter(dining, func(r domain.Recommendation, _ int) bool {
			return r.BudgetFriendly
		})
		if len(friendly) >= diningPicksPerPlan {
			return friendly[:diningPicksPerPlan]
		}
		if len(friendly) > 0 {
			return friendly
		}
	}
	return topRecommendations(dining, diningPicksPerPlan)
}

func topRecommendations(recs []domain.Recommendation, n int) []domain.Recommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}

// pickStay selects by nightly rate: cheapest for economic, priciest for
// premium. Missing tiers collapse to the nearest available stay.
func pickStay(stays []domain.Stay, index int) *domain.Stay {
	if len(stays) == 0 {
		return nil
	}
	sorted := make([]domain.Stay, len(stays))
	copy(sorted, stays)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].NightlyRate < sorted[j].NightlyRate })

	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	stay := sorted[index]
	return &stay
}

// pickTransport keeps the full option list but orders it by tier
// preference: cheapest-first for economic, fastest-first otherwise.
func pickTransport(options []domain.TransportOption, planType string) []domain.TransportOption {
	if len(options) == 0 {
		return nil
	}
	sorted := make([]domain.TransportOption, len(options))
	copy(sorted, options)
	if planType == "economic" {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EstimatedCost < sorted[j].EstimatedCost })
	} else {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DurationHours < sorted[j].DurationHours })
	}
	return sorted
}

// buildItinerary asks the LLM for a day-by-day outline and falls back to a
// deterministic schedule built from the plan's own picks.
func (s *TripService) buildItinerary(ctx context.Context, req domain.TripRequest, start time.Time, plan domain.TravelPlan) []domain.ItineraryDay {
	if s.gen != nil {
		names := lo.Map(plan.Attractions, func(r domain.Recommendation, _ int) string { return r.Name })
		prompt := fmt.Sprintf(
			"Write a %d-day itinerary for %s (%s tier). Use these attractions where sensible: %s. "+
				"One line per day, formatted exactly as: Day N: summary.",
			req.Days, req.Destination, plan.Type, strings.Join(names, ", "),
		)
		if text, err := s.gen.Generate(ctx, prompt); err == nil {
			if days := parseItinerary(text, req.Days, start); len(days) == req.Days {
				return days
			}
		} else {
			log.Printf("[PLAN] itinerary generation failed for %q (%s): %v", req.Destination, plan.Type, err)
		}
	}
	return fallbackItinerary(req, start, plan)
}

// parseItinerary extracts "Day N: summary" lines. Partial or out-of-range
// answers are discarded by the caller.
func parseItinerary(text string, days int, start time.Time) []domain.ItineraryDay {
	found := make(map[int]string)
	for _, m := range dayLineRegex.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > days {
			continue
		}
		if _, ok := found[n]; !ok {
			found[n] = strings.TrimSpace(m[2])
		}
	}
	if len(found) != days {
		return nil
	}

	out := make([]domain.ItineraryDay, 0, days)
	for d := 1; d <= days; d++ {
		out = append(out, domain.ItineraryDay{
			Day:     d,
			Date:    start.AddDate(0, 0, d-1).Format(isoDate),
			Summary: found[d],
		})
	}
	return out
}

// fallbackItinerary builds a plain schedule: arrival day, two attractions
// per full day, departure day. Dining suggestions rotate through the plan's
// picks.
func fallbackItinerary(req domain.TripRequest, start time.Time, plan domain.TravelPlan) []domain.ItineraryDay {
	days := make([]domain.ItineraryDay, 0, req.Days)
	attractionIdx := 0

	for d := 1; d <= req.Days; d++ {
		day := domain.ItineraryDay{
			Day:  d,
			Date: start.AddDate(0, 0, d-1).Format(isoDate),
		}

		switch {
		case d == 1:
			day.Summary = fmt.Sprintf("Arrive in %s, check in and explore the neighborhood", req.Destination)
		case d == req.Days && req.Days > 1:
			day.Summary = "Last-minute sights, souvenirs and departure"
		default:
			var todays []string
			for i := 0; i < 2 && attractionIdx < len(plan.Attractions); i++ {
				todays = append(todays, plan.Attractions[attractionIdx].Name)
				attractionIdx++
			}
			if len(todays) > 0 {
				day.Summary = "Visit " + strings.Join(todays, " and ")
				day.Activities = todays
			} else {
				day.Summary = fmt.Sprintf("Free day to explore %s", req.Destination)
			}
		}

		if len(plan.Dining) > 0 {
			day.Dining = plan.Dining[(d-1)%len(plan.Dining)].Name
		}

		days = append(days, day)
	}
	return days
}

// estimateTotal sums the plan's concrete picks: preferred transport, stay
// for every night, and daily dining/activities from the allocation.
func estimateTotal(req domain.TripRequest, plan domain.TravelPlan) float64 {
	total := 0.0
	if len(plan.Transport) > 0 {
		total += plan.Transport[0].EstimatedCost
	}
	if plan.Accommodation != nil {
		total += plan.Accommodation.NightlyRate * float64(req.Days)
	}
	total += DailyAmount(plan.Allocations, "dining") * float64(req.Days)
	total += DailyAmount(plan.Allocations, "activities") * float64(req.Days)
	return round2(total)
}
