package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tripweaver/backend/internal/domain"
)

const (
	defaultBaseURL = "https://restapi.amap.com"

	geocodeCacheTTL     = 24 * time.Hour
	geocodeCacheCleanup = 1 * time.Hour
)

// Client talks to the Amap (Gaode) REST API: place search, geocoding and
// weather forecasts. Geocode lookups are memoized since destinations repeat
// heavily across aggregations.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	rateLimiter  *rate.Limiter
	geocodeCache *gocache.Cache
	debug        bool
}

// NewClient creates an Amap API client. An empty baseURL selects the public
// endpoint; tests point it at an httptest server.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Free-tier Amap keys allow ~3 requests per second.
	limiter := rate.NewLimiter(rate.Limit(3), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:       apiKey,
		baseURL:      baseURL,
		rateLimiter:  limiter,
		geocodeCache: gocache.New(geocodeCacheTTL, geocodeCacheCleanup),
	}
}

// SetDebug toggles request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type poiResponse struct {
	Status string `json:"status"`
	Info   string `json:"info"`
	POIs   []POI  `json:"pois"`
}

// POI is one point of interest from place search.
type POI struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Address      string `json:"address"`
	Location     string `json:"location"`
	Tel          string `json:"tel"`
	BusinessArea string `json:"business_area"`
	CityName     string `json:"cityname"`
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location string `json:"location"`
	} `json:"geocodes"`
}

type weatherResponse struct {
	Status    string `json:"status"`
	Info      string `json:"info"`
	Forecasts []struct {
		City  string `json:"city"`
		Casts []struct {
			Date         string `json:"date"`
			DayWeather   string `json:"dayweather"`
			NightWeather string `json:"nightweather"`
			DayTemp      string `json:"daytemp"`
			NightTemp    string `json:"nighttemp"`
			DayWind      string `json:"daywind"`
			DayPower     string `json:"daypower"`
		} `json:"casts"`
	} `json:"forecasts"`
}

// SearchPOI runs a keyword place search scoped to a city.
func (c *Client) SearchPOI(ctx context.Context, city, keywords string, limit int) ([]POI, error) {
	if limit <= 0 || limit > 25 {
		limit = 20
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("keywords", keywords)
	params.Add("city", city)
	params.Add("offset", strconv.Itoa(limit))
	params.Add("page", "1")

	var resp poiResponse
	if err := c.getJSON(ctx, "/v3/place/text", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		return nil, fmt.Errorf("%w: amap status %s (%s)", domain.ErrUpstreamFailure, resp.Status, resp.Info)
	}
	if len(resp.POIs) == 0 {
		return nil, domain.ErrNotFound
	}
	return resp.POIs, nil
}

// Geocode resolves an address or city name to "longitude,latitude".
// Results are memoized for a day.
func (c *Client) Geocode(ctx context.Context, address string) (string, error) {
	if cached, ok := c.geocodeCache.Get(address); ok {
		return cached.(string), nil
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("address", address)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/v3/geocode/geo", params, &resp); err != nil {
		return "", err
	}
	if resp.Status != "1" || len(resp.Geocodes) == 0 {
		return "", domain.ErrNotFound
	}

	location := resp.Geocodes[0].Location
	c.geocodeCache.Set(address, location, gocache.DefaultExpiration)
	return location, nil
}

// Forecast returns up to days of forecast for a city.
func (c *Client) Forecast(ctx context.Context, city string, days int) ([]domain.WeatherForecast, error) {
	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("city", city)
	params.Add("extensions", "all")

	var resp weatherResponse
	if err := c.getJSON(ctx, "/v3/weather/weatherInfo", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "1" || len(resp.Forecasts) == 0 {
		return nil, domain.ErrNotFound
	}

	casts := resp.Forecasts[0].Casts
	if days > 0 && len(casts) > days {
		casts = casts[:days]
	}

	out := make([]domain.WeatherForecast, 0, len(casts))
	for _, cast := range casts {
		dayTemp, _ := strconv.Atoi(cast.DayTemp)
		nightTemp, _ := strconv.Atoi(cast.NightTemp)
		out = append(out, domain.WeatherForecast{
			Date:         cast.Date,
			DayWeather:   cast.DayWeather,
			NightWeather: cast.NightWeather,
			DayTempC:     dayTemp,
			NightTempC:   nightTemp,
			Wind:         cast.DayWind + " " + cast.DayPower,
		})
	}
	return out, nil
}

// getJSON executes a rate-limited GET with bounded retries and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", "TripWeaver/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			if c.debug {
				log.Printf("[AMAP] request error (attempt %d): %v", attempt, err)
			}
			if !sleepBackoff(ctx, attempt) {
				return lastErr
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			if c.debug {
				log.Printf("[AMAP] status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))
			}
			if resp.StatusCode == http.StatusNotFound {
				return domain.ErrNotFound
			}
			if !sleepBackoff(ctx, attempt) {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return lastErr
}

// sleepBackoff waits attempt*500ms or until the context is done. Returns
// false when the context expired.
func sleepBackoff(ctx context.Context, attempt int) bool {
	select {
	case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		return true
	case <-ctx.Done():
		return false
	}
}
