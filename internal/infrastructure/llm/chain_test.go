package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

type scriptedGen struct {
	text  string
	err   error
	calls int
}

func (s *scriptedGen) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChainGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("first healthy provider answers", func(t *testing.T) {
		first := &scriptedGen{text: "answer"}
		second := &scriptedGen{text: "unused"}

		chain := NewChain([]Provider{
			{Name: "first", Gen: first},
			{Name: "second", Gen: second},
		})

		got, err := chain.Generate(ctx, "prompt")
		if err != nil {
			t.Fatalf("Generate() error = %v, want nil", err)
		}
		if got != "answer" {
			t.Errorf("Generate() = %q, want answer", got)
		}
		if second.calls != 0 {
			t.Errorf("second provider called %d times, want 0", second.calls)
		}
	})

	t.Run("falls through failed providers in order", func(t *testing.T) {
		broken := &scriptedGen{err: errors.New("rate limited")}
		empty := &scriptedGen{text: ""}
		working := &scriptedGen{text: "eventually"}

		chain := NewChain([]Provider{
			{Name: "broken", Gen: broken},
			{Name: "empty", Gen: empty},
			{Name: "working", Gen: working},
		}, WithBaseBackoff(time.Millisecond))

		got, err := chain.Generate(ctx, "prompt")
		if err != nil {
			t.Fatalf("Generate() error = %v, want nil", err)
		}
		if got != "eventually" {
			t.Errorf("Generate() = %q, want eventually", got)
		}
		if broken.calls != 1 || empty.calls != 1 || working.calls != 1 {
			t.Errorf("call counts = %d/%d/%d, want 1/1/1", broken.calls, empty.calls, working.calls)
		}
	})

	t.Run("all failing wraps ErrNoProviders", func(t *testing.T) {
		chain := NewChain([]Provider{
			{Name: "a", Gen: &scriptedGen{err: errors.New("down")}},
			{Name: "b", Gen: &scriptedGen{err: errors.New("also down")}},
		}, WithBaseBackoff(time.Millisecond))

		_, err := chain.Generate(ctx, "prompt")
		if !errors.Is(err, domain.ErrNoProviders) {
			t.Errorf("Generate() error = %v, want ErrNoProviders", err)
		}
	})

	t.Run("empty chain fails immediately", func(t *testing.T) {
		chain := NewChain(nil)
		if _, err := chain.Generate(ctx, "prompt"); !errors.Is(err, domain.ErrNoProviders) {
			t.Errorf("Generate() error = %v, want ErrNoProviders", err)
		}
	})

	t.Run("cancelled context stops the fallback walk", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		late := &scriptedGen{text: "too late"}
		chain := NewChain([]Provider{
			{Name: "a", Gen: &scriptedGen{err: errors.New("down")}},
			{Name: "late", Gen: late},
		}, WithBaseBackoff(time.Minute))

		_, err := chain.Generate(cancelled, "prompt")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Generate() error = %v, want context.Canceled", err)
		}
		if late.calls != 0 {
			t.Errorf("late provider called %d times, want 0 after cancellation", late.calls)
		}
	})
}
