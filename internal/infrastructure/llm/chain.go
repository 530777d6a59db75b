package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// Provider is one named entry in the fallback chain.
type Provider struct {
	Name string
	Gen  domain.TextGenerator
}

// Chain tries an ordered list of providers until one succeeds. Each attempt
// runs under its own timeout, and failed attempts back off exponentially
// before the next provider is tried.
type Chain struct {
	providers      []Provider
	attemptTimeout time.Duration
	baseBackoff    time.Duration
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithAttemptTimeout bounds each single provider call.
func WithAttemptTimeout(d time.Duration) ChainOption {
	return func(c *Chain) { c.attemptTimeout = d }
}

// WithBaseBackoff sets the delay before the second provider; it doubles per
// subsequent attempt.
func WithBaseBackoff(d time.Duration) ChainOption {
	return func(c *Chain) { c.baseBackoff = d }
}

// NewChain builds a fallback chain over the given providers, in order.
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers:      providers,
		attemptTimeout: 30 * time.Second,
		baseBackoff:    1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns the first successful completion. When every provider
// fails, the error wraps ErrNoProviders together with the last cause.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", domain.ErrNoProviders
	}

	var lastErr error
	backoff := c.baseBackoff

	for i, p := range c.providers {
		if i > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		text, err := p.Gen.Generate(attemptCtx, prompt)
		cancel()

		if err == nil && text != "" {
			if i > 0 {
				log.Printf("[LLM] provider %s answered after %d failed attempts", p.Name, i)
			}
			return text, nil
		}

		if err == nil {
			err = domain.ErrEmptyCompletion
		}
		log.Printf("[LLM] provider %s failed: %v", p.Name, err)
		lastErr = err
	}

	return "", fmt.Errorf("%w: last error: %v", domain.ErrNoProviders, lastErr)
}
