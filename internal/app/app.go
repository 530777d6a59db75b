// Package app wires configuration into the running object graph shared by
// the HTTP server and the CLI.
package app

import (
	"context"
	"log"

	"github.com/tripweaver/backend/config"
	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/infrastructure/amap"
	"github.com/tripweaver/backend/internal/infrastructure/cache"
	"github.com/tripweaver/backend/internal/infrastructure/llm"
	"github.com/tripweaver/backend/internal/infrastructure/webfetch"
	"github.com/tripweaver/backend/internal/report"
	"github.com/tripweaver/backend/internal/usecase"
)

// App holds the wired services.
type App struct {
	Config      *config.Config
	Dining      *usecase.Aggregator
	Attractions *usecase.Aggregator
	Trips       *usecase.TripService
	Reports     *report.Generator

	closers []func() error
}

// defaultWebSources are the listing pages mined for venue names. The
// template receives the destination.
var defaultWebSources = map[string][]webfetch.Source{
	"restaurant": {
		{Tag: domain.SourceFoodBlog, URLTemplate: "https://www.dianping.com/search/keyword/%s/0_%%E7%%BE%%8E%%E9%%A3%%9F"},
		{Tag: domain.SourceSearch, URLTemplate: "https://www.bing.com/search?q=%s+best+restaurants"},
	},
	"attraction": {
		{Tag: domain.SourceTourism, URLTemplate: "https://you.ctrip.com/searchsite/?query=%s"},
		{Tag: domain.SourceSearch, URLTemplate: "https://www.bing.com/search?q=%s+top+attractions"},
	},
}

// Build constructs the full service graph from configuration. Missing API
// keys degrade individual sources rather than failing startup.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	gen := a.buildGenerator(ctx, cfg)

	var amapClient *amap.Client
	if cfg.Amap.APIKey != "" {
		amapClient = amap.NewClient(cfg.Amap.APIKey, cfg.Amap.BaseURL)
		if cfg.Server.Environment == "development" {
			amapClient.SetDebug(true)
		}
	} else {
		log.Printf("WARNING: Amap API key not configured, POI and weather lookups disabled")
	}

	a.Dining = a.buildAggregator(cfg, amapClient, gen, "restaurant")
	a.Attractions = a.buildAggregator(cfg, amapClient, gen, "attraction")

	var weather domain.WeatherProvider
	if amapClient != nil {
		weather = amapClient
	}

	budget := usecase.NewBudgetPlanner()
	collector := usecase.NewCollector(a.Dining, a.Attractions, weather, gen, budget)
	a.Trips = usecase.NewTripService(collector, budget, gen)
	a.Reports = report.NewGenerator(cfg.Report.OutputDir)

	return a, nil
}

// buildGenerator assembles the provider fallback chain in configured order,
// skipping providers without credentials. Returns nil when nothing is
// configured; downstream code treats that as "no LLM available".
func (a *App) buildGenerator(ctx context.Context, cfg *config.Config) domain.TextGenerator {
	var providers []llm.Provider

	for _, name := range cfg.LLM.Providers {
		switch name {
		case "openai":
			if cfg.LLM.OpenAIAPIKey != "" {
				client := llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.OpenAIBaseURL)
				providers = append(providers, llm.Provider{Name: "openai/" + cfg.LLM.OpenAIModel, Gen: client})
			}
		case "anthropic":
			if cfg.LLM.AnthropicAPIKey != "" {
				client := llm.NewAnthropicClient(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel, cfg.LLM.AnthropicBaseURL)
				providers = append(providers, llm.Provider{Name: "anthropic/" + cfg.LLM.AnthropicModel, Gen: client})
			}
		case "gemini":
			if cfg.LLM.GeminiAPIKey != "" {
				client, err := llm.NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel)
				if err != nil {
					log.Printf("WARNING: gemini client init failed: %v", err)
					continue
				}
				a.closers = append(a.closers, client.Close)
				providers = append(providers, llm.Provider{Name: "gemini/" + cfg.LLM.GeminiModel, Gen: client})
			}
		}
	}

	if len(providers) == 0 {
		log.Printf("WARNING: no LLM providers configured, AI fallback and itineraries degrade to synthetic content")
		return nil
	}

	log.Printf("LLM chain: %d provider(s), first is %s", len(providers), providers[0].Name)
	return llm.NewChain(providers, llm.WithAttemptTimeout(cfg.LLM.AttemptTimeout))
}

func (a *App) buildAggregator(cfg *config.Config, amapClient *amap.Client, gen domain.TextGenerator, kind string) *usecase.Aggregator {
	var connectors []domain.Connector
	if amapClient != nil {
		if kind == "restaurant" {
			connectors = append(connectors, amap.NewDiningConnector(amapClient))
		} else {
			connectors = append(connectors, amap.NewAttractionConnector(amapClient))
		}
	}
	category := "Local"
	if kind == "attraction" {
		category = "Sightseeing"
	}
	connectors = append(connectors, webfetch.NewConnector(defaultWebSources[kind], category))

	var fallback domain.Connector
	if gen != nil {
		fallback = llm.NewFallbackConnector(gen, kind)
	}

	store := cache.NewMemoryCache(
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
	)

	return usecase.NewAggregator(connectors, fallback, store, usecase.AggregatorConfig{
		Kind:                kind,
		MaxResults:          cfg.Aggregator.MaxResults,
		ConnectorTimeout:    cfg.Aggregator.ConnectorTimeout,
		SimilarityThreshold: cfg.Aggregator.SimilarityThreshold,
		BudgetSlack:         cfg.Aggregator.BudgetSlack,
		EnableDebugLogging:  cfg.Aggregator.Debug,
	})
}

// Close releases clients that hold connections.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("WARNING: close failed: %v", err)
		}
	}
}
