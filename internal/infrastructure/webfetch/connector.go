package webfetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

const (
	maxBodyBytes      = 1 << 20 // listing pages past 1MB are noise
	maxPerSource      = 10
	defaultTimeoutSec = 10
)

// Package-level compiled extraction patterns. Listing pages name venues in
// running text; the first capture group is the venue name.
var (
	tagRegex   = regexp.MustCompile(`(?s)<script.*?</script>|<style.*?</style>|<[^>]+>`)
	spaceRegex = regexp.MustCompile(`\s+`)

	venuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([^。，,.\n]{3,30}(?:餐厅|饭店|酒楼|restaurant|cafe|bistro))`),
		regexp.MustCompile(`(?i)recommended[^.。\n]{0,20}?([\p{L}\p{N}' ]{3,40})`),
		regexp.MustCompile(`推荐[^。，,\n]{0,10}?([^。，,\n]{3,30})`),
	}
)

// Source is one listing site to mine. URLTemplate receives the
// destination via fmt.Sprintf.
type Source struct {
	Tag         string // domain source tag, e.g. food_blog, tourism_site
	URLTemplate string
}

// Connector extracts venue candidates from curated listing pages with
// text-pattern heuristics. It never returns an error: unreachable or
// unparseable pages just contribute nothing.
type Connector struct {
	httpClient *http.Client
	sources    []Source
	category   string
}

// NewConnector builds a scraping connector over the given sources.
func NewConnector(sources []Source, category string) *Connector {
	return &Connector{
		httpClient: &http.Client{Timeout: defaultTimeoutSec * time.Second},
		sources:    sources,
		category:   category,
	}
}

func (c *Connector) Name() string { return "webfetch" }

// Fetch mines every configured source page for the destination.
func (c *Connector) Fetch(ctx context.Context, query domain.Query) ([]domain.Place, error) {
	var places []domain.Place
	seen := make(map[string]bool)

	for _, src := range c.sources {
		pageURL := fmt.Sprintf(src.URLTemplate, escapeDestination(src.URLTemplate, query.Destination))
		text, err := c.fetchText(ctx, pageURL)
		if err != nil {
			log.Printf("[SCRAPE] %s unreachable: %v", pageURL, err)
			continue
		}

		found := 0
		for _, pattern := range venuePatterns {
			if found >= maxPerSource {
				break
			}
			for _, m := range pattern.FindAllStringSubmatch(text, maxPerSource) {
				name := strings.TrimSpace(m[1])
				if len([]rune(name)) < 3 || seen[name] {
					continue
				}
				seen[name] = true
				places = append(places, domain.Place{
					Name:        name,
					Source:      src.Tag,
					Description: snippet(m[0]),
					Category:    c.category,
					RetrievedAt: time.Now(),
				})
				found++
				if found >= maxPerSource {
					break
				}
			}
		}
	}

	return places, nil
}

// escapeDestination encodes the destination for the template's %s slot:
// query-string form when the slot sits after a "?", path form otherwise.
func escapeDestination(template, destination string) string {
	q := strings.Index(template, "?")
	if q >= 0 && strings.Index(template, "%s") > q {
		return url.QueryEscape(destination)
	}
	return url.PathEscape(destination)
}

// fetchText downloads a page and strips markup, leaving plain text for the
// extraction patterns.
func (c *Connector) fetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; TripWeaver/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	text := tagRegex.ReplaceAllString(string(body), " ")
	return spaceRegex.ReplaceAllString(text, " "), nil
}

func snippet(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > 150 {
		runes = runes[:150]
	}
	return string(runes)
}
