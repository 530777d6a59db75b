package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// Collector gathers every data section a trip plan needs: weather,
// attractions, dining, accommodations and transport. Each section is
// failure-isolated; a broken upstream leaves its section empty (or filled
// with deterministic fallbacks) instead of failing the collection.
type Collector struct {
	dining      *Aggregator
	attractions *Aggregator
	weather     domain.WeatherProvider
	gen         domain.TextGenerator
	budget      *BudgetPlanner
}

// NewCollector wires a collector. weather and gen may be nil; the collector
// degrades to fallback content for the sections they would serve.
func NewCollector(
	dining, attractions *Aggregator,
	weather domain.WeatherProvider,
	gen domain.TextGenerator,
	budget *BudgetPlanner,
) *Collector {
	if budget == nil {
		budget = NewBudgetPlanner()
	}
	return &Collector{
		dining:      dining,
		attractions: attractions,
		weather:     weather,
		gen:         gen,
		budget:      budget,
	}
}

// Collect gathers all travel data for the request. It never fails; callers
// should expect individual sections to be empty when upstreams are down.
func (c *Collector) Collect(ctx context.Context, req domain.TripRequest, start time.Time) domain.TravelData {
	log.Printf("[COLLECT] gathering travel data for %q (%d days, budget %.0f)", req.Destination, req.Days, req.Budget)

	// The balanced split drives per-category daily budgets during collection;
	// plan tiers re-allocate later.
	allocations := c.budget.Allocate(req.Budget, req.Days, "balanced")

	data := domain.TravelData{Destination: req.Destination}

	if c.weather != nil {
		forecast, err := c.weather.Forecast(ctx, req.Destination, req.Days)
		if err != nil {
			log.Printf("[COLLECT] weather lookup failed for %q: %v", req.Destination, err)
		} else {
			data.Weather = trimForecast(forecast, start)
		}
	}

	if c.dining != nil {
		data.Dining = c.dining.Aggregate(ctx, domain.Query{
			Destination: req.Destination,
			DailyBudget: DailyAmount(allocations, "dining"),
			MaxResults:  20,
		})
	}

	if c.attractions != nil {
		data.Attractions = c.attractions.Aggregate(ctx, domain.Query{
			Destination: req.Destination,
			DailyBudget: DailyAmount(allocations, "activities"),
			MaxResults:  20,
		})
	}

	data.Accommodations = c.collectStays(ctx, req, DailyAmount(allocations, "accommodation"))
	data.Transport = buildTransportOptions(req, totalAmount(allocations, "transportation"))

	return data
}

// collectStays asks the LLM for accommodation suggestions and falls back to
// three deterministic budget tiers when the model is unavailable or its
// answer is unusable.
func (c *Collector) collectStays(ctx context.Context, req domain.TripRequest, nightlyBudget float64) []domain.Stay {
	if c.gen != nil {
		prompt := fmt.Sprintf(
			"List 3 real, well-known places to stay in %s around %.0f per night, one per line, "+
				"formatted as: Name | Type | NightlyRate | Area. Types: Hostel, Hotel, Boutique, Resort. "+
				"No extra commentary.",
			req.Destination, nightlyBudget,
		)
		if text, err := c.gen.Generate(ctx, prompt); err == nil {
			if stays := parseStays(text, nightlyBudget); len(stays) > 0 {
				return stays
			}
		} else {
			log.Printf("[COLLECT] accommodation generation failed for %q: %v", req.Destination, err)
		}
	}
	return fallbackStays(req.Destination, nightlyBudget)
}

// parseStays reads "Name | Type | NightlyRate | Area" lines.
func parseStays(text string, nightlyBudget float64) []domain.Stay {
	var stays []domain.Stay
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(parts[0]), "0123456789.- "))
		if name == "" {
			continue
		}
		stay := domain.Stay{
			Name:        name,
			Type:        strings.TrimSpace(parts[1]),
			NightlyRate: nightlyBudget,
			Source:      domain.SourceAIFallback,
		}
		if len(parts) > 2 {
			var rate float64
			if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%f", &rate); err == nil && rate > 0 {
				stay.NightlyRate = rate
			}
		}
		if len(parts) > 3 {
			stay.Area = strings.TrimSpace(parts[3])
		}
		stays = append(stays, stay)
		if len(stays) == 5 {
			break
		}
	}
	return stays
}

func fallbackStays(destination string, nightlyBudget float64) []domain.Stay {
	return []domain.Stay{
		{
			Name:        destination + " Central Hostel",
			Type:        "Hostel",
			NightlyRate: round2(nightlyBudget * 0.5),
			Rating:      4.0,
			Amenities:   []string{"Wi-Fi", "Shared kitchen"},
			Source:      domain.SourceEmergency,
		},
		{
			Name:        destination + " City Hotel",
			Type:        "Hotel",
			NightlyRate: round2(nightlyBudget),
			Rating:      4.2,
			Amenities:   []string{"Wi-Fi", "Breakfast", "24h front desk"},
			Source:      domain.SourceEmergency,
		},
		{
			Name:        destination + " Boutique Residence",
			Type:        "Boutique",
			NightlyRate: round2(nightlyBudget * 1.8),
			Rating:      4.6,
			Amenities:   []string{"Wi-Fi", "Breakfast", "Spa", "Concierge"},
			Source:      domain.SourceEmergency,
		},
	}
}

// buildTransportOptions derives coarse options from the transport budget.
// Real fare lookup lives behind connectors in the dining/attraction path;
// transport stays estimate-based like the reference behavior.
func buildTransportOptions(req domain.TripRequest, transportBudget float64) []domain.TransportOption {
	from := req.Departure
	if from == "" {
		from = "your departure city"
	}

	return []domain.TransportOption{
		{
			Mode:          "Flight",
			Description:   fmt.Sprintf("Direct or one-stop flight from %s to %s", from, req.Destination),
			EstimatedCost: round2(transportBudget * 0.65),
			DurationHours: 3,
		},
		{
			Mode:          "Train",
			Description:   fmt.Sprintf("Rail connection from %s to %s", from, req.Destination),
			EstimatedCost: round2(transportBudget * 0.35),
			DurationHours: 6,
		},
		{
			Mode:          "Bus",
			Description:   fmt.Sprintf("Long-distance coach from %s to %s", from, req.Destination),
			EstimatedCost: round2(transportBudget * 0.15),
			DurationHours: 10,
		},
	}
}

// trimForecast drops casts dated before the trip starts. Upstream forecasts
// begin at the current day regardless of the requested start date.
func trimForecast(forecast []domain.WeatherForecast, start time.Time) []domain.WeatherForecast {
	cutoff := start.Format("2006-01-02")
	kept := forecast[:0]
	for _, cast := range forecast {
		if cast.Date == "" || cast.Date >= cutoff {
			kept = append(kept, cast)
		}
	}
	return kept
}

func totalAmount(allocations []domain.BudgetAllocation, category string) float64 {
	for _, a := range allocations {
		if a.Category == category {
			return a.Amount
		}
	}
	return 0
}
