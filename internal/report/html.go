// Package report renders a finished trip plan into a standalone HTML
// document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
)

var (
	planTmpl     = template.Must(template.New("report").Parse(reportTemplate))
	fallbackTmpl = template.Must(template.New("fallback").Parse(fallbackTemplate))
)

// Generator renders trip plan results to HTML files under OutputDir.
type Generator struct {
	OutputDir string
}

func NewGenerator(outputDir string) *Generator {
	if outputDir == "" {
		outputDir = "reports"
	}
	return &Generator{OutputDir: outputDir}
}

type templateData struct {
	Result  *domain.TripPlanResult
	Sources []string
}

// Render writes the HTML report for a result to w. A template execution
// failure degrades to the minimal fallback document instead of erroring.
func (g *Generator) Render(w io.Writer, result *domain.TripPlanResult) error {
	data := templateData{
		Result:  result,
		Sources: collectSources(result),
	}

	var buf bytes.Buffer
	if err := planTmpl.Execute(&buf, data); err != nil {
		log.Printf("[REPORT] template execution failed, writing fallback: %v", err)
		buf.Reset()
		if err := fallbackTmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("render fallback report: %w", err)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Write renders the report to a file named after the destination, start
// date and a short unique suffix, and returns its path.
func (g *Generator) Write(result *domain.TripPlanResult) (string, error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.html",
		slug(result.Request.Destination),
		result.StartDate,
		uuid.NewString()[:8],
	)
	path := filepath.Join(g.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := g.Render(f, result); err != nil {
		return "", err
	}

	log.Printf("[REPORT] wrote %s", path)
	return path, nil
}

// collectSources gathers the distinct source tags that contributed to the
// result, in first-seen order.
func collectSources(result *domain.TripPlanResult) []string {
	seen := make(map[string]bool)
	var sources []string
	add := func(tags []string) {
		for _, t := range tags {
			if !seen[t] {
				seen[t] = true
				sources = append(sources, t)
			}
		}
	}
	for _, r := range result.Data.Dining {
		add(r.ContributingSources)
	}
	for _, r := range result.Data.Attractions {
		add(r.ContributingSources)
	}
	return sources
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127 {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "trip"
	}
	return b.String()
}
