package amap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.NotNil(t, client.geocodeCache)
	assert.False(t, client.debug)
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("test-api-key", "")
	assert.Equal(t, defaultBaseURL, client.baseURL)
}

func TestSearchPOI_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/place/text", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "上海", r.URL.Query().Get("city"))
		assert.Equal(t, "餐厅|美食", r.URL.Query().Get("keywords"))

		json.NewEncoder(w).Encode(poiResponse{
			Status: "1",
			Info:   "OK",
			POIs: []POI{
				{ID: "B001", Name: "老正兴菜馆", Address: "福州路556号", Location: "121.48,31.23"},
				{ID: "B002", Name: "绿波廊", Address: "豫园路115号", Location: "121.49,31.22"},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	pois, err := client.SearchPOI(context.Background(), "上海", "餐厅|美食", 10)

	require.NoError(t, err)
	require.Len(t, pois, 2)
	assert.Equal(t, "老正兴菜馆", pois[0].Name)
	assert.Equal(t, "121.48,31.23", pois[0].Location)
}

func TestSearchPOI_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(poiResponse{Status: "0", Info: "INVALID_USER_KEY"})
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.SearchPOI(context.Background(), "上海", "餐厅", 10)

	assert.True(t, errors.Is(err, domain.ErrUpstreamFailure))
}

func TestSearchPOI_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(poiResponse{Status: "1", Info: "OK"})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.SearchPOI(context.Background(), "Atlantis", "餐厅", 10)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGeocode_Memoized(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v3/geocode/geo", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "1",
			"geocodes": []map[string]string{{"location": "121.47,31.23"}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	first, err := client.Geocode(context.Background(), "上海")
	require.NoError(t, err)
	assert.Equal(t, "121.47,31.23", first)

	second, err := client.Geocode(context.Background(), "上海")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup should come from the memo")
}

func TestForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/weather/weatherInfo", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("extensions"))
		w.Write([]byte(`{
			"status": "1",
			"forecasts": [{
				"city": "上海",
				"casts": [
					{"date": "2026-08-24", "dayweather": "晴", "nightweather": "多云", "daytemp": "33", "nighttemp": "26", "daywind": "东南", "daypower": "3"},
					{"date": "2026-08-25", "dayweather": "多云", "nightweather": "阴", "daytemp": "31", "nighttemp": "25", "daywind": "东", "daypower": "4"},
					{"date": "2026-08-26", "dayweather": "小雨", "nightweather": "小雨", "daytemp": "28", "nighttemp": "24", "daywind": "北", "daypower": "4"}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	forecast, err := client.Forecast(context.Background(), "上海", 2)

	require.NoError(t, err)
	require.Len(t, forecast, 2, "forecast should be capped at the requested days")
	assert.Equal(t, "2026-08-24", forecast[0].Date)
	assert.Equal(t, "晴", forecast[0].DayWeather)
	assert.Equal(t, 33, forecast[0].DayTempC)
	assert.Equal(t, 26, forecast[0].NightTempC)
	assert.Equal(t, "东南 3", forecast[0].Wind)
}

func TestGetJSON_RetriesOnServerError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(poiResponse{Status: "1", POIs: []POI{{Name: "绿波廊"}}})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	pois, err := client.SearchPOI(context.Background(), "上海", "餐厅", 10)

	require.NoError(t, err)
	assert.Len(t, pois, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGetJSON_NotFoundIsTerminal(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.SearchPOI(context.Background(), "上海", "餐厅", 10)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "404 should not be retried")
}

func TestConnectorFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(poiResponse{
			Status: "1",
			POIs: []POI{
				{ID: "B001", Name: "老正兴菜馆", Address: "福州路556号", Location: "121.48,31.23"},
				{ID: "B002", Name: "工商银行营业厅", Address: "南京路100号"},
				{ID: "B003", Name: "X"},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	connector := NewDiningConnector(client)

	assert.Equal(t, domain.SourceAmap, connector.Name())

	places, err := connector.Fetch(context.Background(), domain.Query{Destination: "上海"})
	require.NoError(t, err)
	require.Len(t, places, 1, "bank POIs and one-rune names should be filtered")
	assert.Equal(t, "老正兴菜馆", places[0].Name)
	assert.Equal(t, domain.SourceAmap, places[0].Source)
	assert.Equal(t, "B001", places[0].ExternalID)
	assert.Equal(t, "Local", places[0].Category)
}
