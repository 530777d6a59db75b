package amap

import (
	"context"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// nonVenueKeywords filter POIs that match the keyword search but are not
// actual venues worth recommending.
var nonVenueKeywords = []string{
	"银行", "医院", "学校", "加油站", "停车场", "地铁", "公交",
	"bank", "hospital", "school", "gas station", "parking",
}

// Connector adapts the Amap place search to the source connector contract.
// One instance serves one venue kind (restaurants, attractions) via its
// keyword set.
type Connector struct {
	client   *Client
	keywords string
	category string
}

// NewDiningConnector searches Amap for restaurants.
func NewDiningConnector(client *Client) *Connector {
	return &Connector{client: client, keywords: "餐厅|美食", category: "Local"}
}

// NewAttractionConnector searches Amap for sights and attractions.
func NewAttractionConnector(client *Client) *Connector {
	return &Connector{client: client, keywords: "景点|旅游景区", category: "Sightseeing"}
}

func (c *Connector) Name() string { return domain.SourceAmap }

// Fetch searches POIs for the query destination. Upstream failure surfaces
// as an error; the aggregator treats it as an empty contribution.
func (c *Connector) Fetch(ctx context.Context, query domain.Query) ([]domain.Place, error) {
	limit := query.MaxResults
	if limit <= 0 {
		limit = 20
	}

	pois, err := c.client.SearchPOI(ctx, query.Destination, c.keywords, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	places := make([]domain.Place, 0, len(pois))
	for _, poi := range pois {
		name := strings.TrimSpace(poi.Name)
		if len([]rune(name)) < 2 || isNonVenue(name) {
			continue
		}
		places = append(places, domain.Place{
			Name:        name,
			Source:      domain.SourceAmap,
			ExternalID:  poi.ID,
			Address:     poi.Address,
			Location:    poi.Location,
			Category:    c.category,
			RetrievedAt: now,
		})
	}
	return places, nil
}

func isNonVenue(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range nonVenueKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
