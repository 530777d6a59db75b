package domain

import "time"

// Place is a single raw candidate returned by one source connector,
// before deduplication. Only Name is guaranteed to be present.
type Place struct {
	Name          string    `json:"name"`
	Source        string    `json:"source"`
	ExternalID    string    `json:"externalId,omitempty"` // stable POI id when the source has one
	Address       string    `json:"address,omitempty"`
	Location      string    `json:"location,omitempty"` // "longitude,latitude"
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"` // cuisine for dining, attraction type otherwise
	PriceRange    string    `json:"priceRange,omitempty"`
	Rating        float64   `json:"rating,omitempty"` // 0-5, zero means absent
	ReviewCount   int       `json:"reviewCount,omitempty"`
	Specialties   []string  `json:"specialties,omitempty"`
	EstimatedCost float64   `json:"estimatedCost,omitempty"`
	RetrievedAt   time.Time `json:"retrievedAt,omitempty"`
}

// Recommendation is the fused and scored representative of one or more
// candidate places judged to be the same real-world venue.
type Recommendation struct {
	Place

	ContributingSources []string `json:"contributingSources"`
	MergeCount          int      `json:"mergeCount"`
	QualityScore        float64  `json:"qualityScore"`
	CompositeScore      float64  `json:"compositeScore"`
	BudgetFriendly      bool     `json:"budgetFriendly"`
	CostRatio           float64  `json:"costRatio"`
}

// Query describes one aggregation request.
type Query struct {
	Destination string  `json:"destination" binding:"required"`
	DailyBudget float64 `json:"dailyBudget"`
	Coordinates string  `json:"coordinates,omitempty"` // "longitude,latitude", optional
	MaxResults  int     `json:"maxResults,omitempty"`
}

// Price range tiers used by connectors and the enrichment step.
const (
	PriceBudget   = "Budget"
	PriceMidRange = "Mid-range"
	PriceHighEnd  = "High-end"
	PriceLuxury   = "Luxury"
)

// Well-known source tags. Connectors may emit additional tags; unknown
// tags fall back to a default reliability weight.
const (
	SourceAmap       = "amap"
	SourceTourism    = "tourism_site"
	SourceFoodBlog   = "food_blog"
	SourceSearch     = "search_engine"
	SourceAIFallback = "ai_fallback"
	SourceEmergency  = "emergency_fallback"
)
