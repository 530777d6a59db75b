package domain

import "context"

// Connector fetches raw place candidates from one data source.
// Implementations recover from their own failures: a broken upstream
// surfaces as an error (or an empty slice), never as a panic, and every
// returned place carries the connector's source tag.
type Connector interface {
	Name() string
	Fetch(ctx context.Context, query Query) ([]Place, error)
}

// RecommendationCache memoizes finished aggregation results per query key.
type RecommendationCache interface {
	Get(ctx context.Context, key string) ([]Recommendation, error)
	Put(ctx context.Context, key string, recs []Recommendation) error
}

// TextGenerator produces a completion for a prompt. Implemented by the
// individual LLM providers and by the provider fallback chain.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// WeatherProvider returns a multi-day forecast for a city.
type WeatherProvider interface {
	Forecast(ctx context.Context, city string, days int) ([]WeatherForecast, error)
}
