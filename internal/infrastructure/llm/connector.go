package llm

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// numbered list item: "1. Name - description" or "1) Name: description"
var listItemRegex = regexp.MustCompile(`(?m)^\s*\d+[.)]\s*([^:\-\n]{2,60})(?:\s*[:\-]\s*(.+))?$`)

// Connector generates synthetic place candidates with the LLM when the
// real sources came up short. All output carries the ai_fallback tag so
// scoring weighs it below everything else.
type Connector struct {
	gen  domain.TextGenerator
	kind string // "restaurant" or "attraction"
}

// NewFallbackConnector builds the AI fallback source for one venue kind.
func NewFallbackConnector(gen domain.TextGenerator, kind string) *Connector {
	return &Connector{gen: gen, kind: kind}
}

func (c *Connector) Name() string { return domain.SourceAIFallback }

// Fetch asks the model for well-known venues and parses its numbered list.
// When the model is unavailable or unparseable it falls back to a small
// deterministic synthetic set so the pool is never empty.
func (c *Connector) Fetch(ctx context.Context, query domain.Query) ([]domain.Place, error) {
	if c.gen != nil {
		prompt := fmt.Sprintf(
			"List 5 well-known %ss in %s as a numbered list, one per line, "+
				"formatted as: N. Name - one sentence description. No other text.",
			c.kind, query.Destination,
		)
		if text, err := c.gen.Generate(ctx, prompt); err == nil {
			if places := c.parseList(text); len(places) > 0 {
				return places, nil
			}
			log.Printf("[LLM] unparseable %s list for %q, using synthetic fallback", c.kind, query.Destination)
		} else {
			log.Printf("[LLM] %s fallback generation failed for %q: %v", c.kind, query.Destination, err)
		}
	}
	return c.synthetic(query), nil
}

func (c *Connector) parseList(text string) []domain.Place {
	now := time.Now()
	var places []domain.Place
	for _, m := range listItemRegex.FindAllStringSubmatch(text, 10) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		places = append(places, domain.Place{
			Name:        name,
			Source:      domain.SourceAIFallback,
			Description: strings.TrimSpace(m[2]),
			RetrievedAt: now,
		})
	}
	return places
}

// synthetic is the deterministic last-resort candidate trio.
func (c *Connector) synthetic(query domain.Query) []domain.Place {
	now := time.Now()
	return []domain.Place{
		{
			Name:          fmt.Sprintf("%s Traditional %s", query.Destination, capitalize(c.kind)),
			Source:        domain.SourceAIFallback,
			Description:   fmt.Sprintf("Long-standing local %s serving regional classics.", c.kind),
			Category:      "Local Traditional",
			PriceRange:    domain.PriceMidRange,
			Rating:        4.2,
			EstimatedCost: query.DailyBudget * 0.8,
			Specialties:   []string{"Regional classics"},
			RetrievedAt:   now,
		},
		{
			Name:          fmt.Sprintf("%s Street Quarter", query.Destination),
			Source:        domain.SourceAIFallback,
			Description:   fmt.Sprintf("Lively quarter with dozens of budget %s options.", c.kind),
			Category:      "Street Food",
			PriceRange:    domain.PriceBudget,
			Rating:        4.0,
			EstimatedCost: query.DailyBudget * 0.4,
			Specialties:   []string{"Local snacks"},
			RetrievedAt:   now,
		},
		{
			Name:          fmt.Sprintf("%s Signature %s", query.Destination, capitalize(c.kind)),
			Source:        domain.SourceAIFallback,
			Description:   fmt.Sprintf("Upscale %s with refined tasting options.", c.kind),
			Category:      "Fine Dining",
			PriceRange:    domain.PriceHighEnd,
			Rating:        4.5,
			EstimatedCost: query.DailyBudget * 1.5,
			Specialties:   []string{"Tasting menu"},
			RetrievedAt:   now,
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
