package domain

import "time"

// TripRequest is the caller's description of the trip to plan.
type TripRequest struct {
	Destination string  `json:"destination" binding:"required"`
	Departure   string  `json:"departure,omitempty"`
	StartDate   string  `json:"startDate,omitempty"` // ISO date or a relative expression ("tomorrow", "3 days later")
	Days        int     `json:"days" binding:"required"`
	Budget      float64 `json:"budget" binding:"required"` // total trip budget
}

// WeatherForecast is one day of forecast for the destination city.
type WeatherForecast struct {
	Date         string `json:"date"`
	DayWeather   string `json:"dayWeather"`
	NightWeather string `json:"nightWeather"`
	DayTempC     int    `json:"dayTempC"`
	NightTempC   int    `json:"nightTempC"`
	Wind         string `json:"wind,omitempty"`
}

// Stay is an accommodation option.
type Stay struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // Hostel, Hotel, Boutique, Resort
	Area        string   `json:"area,omitempty"`
	NightlyRate float64  `json:"nightlyRate"`
	Rating      float64  `json:"rating,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// TransportOption is one way of reaching the destination.
type TransportOption struct {
	Mode          string  `json:"mode"` // Flight, Train, Bus, Car
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimatedCost"`
	DurationHours float64 `json:"durationHours,omitempty"`
}

// BudgetAllocation is the amount assigned to one spending category.
type BudgetAllocation struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
	DailyAmount float64 `json:"dailyAmount"`
}

// ItineraryDay is one planned day.
type ItineraryDay struct {
	Day        int      `json:"day"`
	Date       string   `json:"date,omitempty"`
	Summary    string   `json:"summary"`
	Activities []string `json:"activities,omitempty"`
	Dining     string   `json:"dining,omitempty"`
}

// TravelPlan is one budget-tiered plan variant.
type TravelPlan struct {
	ID             string             `json:"id"`
	Type           string             `json:"type"` // economic, comfort, premium
	Title          string             `json:"title"`
	Allocations    []BudgetAllocation `json:"allocations"`
	Accommodation  *Stay              `json:"accommodation,omitempty"`
	Dining         []Recommendation   `json:"dining"`
	Attractions    []Recommendation   `json:"attractions"`
	Transport      []TransportOption  `json:"transport,omitempty"`
	Itinerary      []ItineraryDay     `json:"itinerary"`
	EstimatedTotal float64            `json:"estimatedTotal"`
}

// TravelData is everything the collector gathered for one destination.
// Individual sections may be empty when their upstream failed; the
// collector never fails as a whole.
type TravelData struct {
	Destination    string            `json:"destination"`
	Weather        []WeatherForecast `json:"weather,omitempty"`
	Attractions    []Recommendation  `json:"attractions"`
	Dining         []Recommendation  `json:"dining"`
	Accommodations []Stay            `json:"accommodations"`
	Transport      []TransportOption `json:"transport,omitempty"`
}

// TripPlanResult is the full planning output returned to callers.
type TripPlanResult struct {
	Request     TripRequest  `json:"request"`
	StartDate   string       `json:"startDate"`
	Data        TravelData   `json:"data"`
	Plans       []TravelPlan `json:"plans"`
	GeneratedAt time.Time    `json:"generatedAt"`
	ReportPath  string       `json:"reportPath,omitempty"`
}
