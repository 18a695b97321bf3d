package generation

import (
	"context"
	"errors"

	"github.com/alexanderramin/waterfall/internal/llm"
	"github.com/alexanderramin/waterfall/internal/plandoc"
)

// Generator turns a prompt into a plan document.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*plandoc.Document, error)
}

// OfflineGenerator generates from the builtin templates. It never fails.
type OfflineGenerator struct{}

func (OfflineGenerator) Generate(_ context.Context, prompt string) (*plandoc.Document, error) {
	return Generate(prompt), nil
}

// FallbackGenerator tries Primary and, when it fails with a model error,
// answers from Fallback instead. Cancellation is never masked.
type FallbackGenerator struct {
	Primary  Generator
	Fallback Generator
	// OnFallback, if set, is called with the primary error before falling back.
	OnFallback func(prompt string, err error)
}

func (g *FallbackGenerator) Generate(ctx context.Context, prompt string) (*plandoc.Document, error) {
	doc, err := g.Primary.Generate(ctx, prompt)
	if err == nil {
		return doc, nil
	}
	if !shouldFallBack(err) || ctx.Err() != nil {
		return nil, err
	}
	if g.OnFallback != nil {
		g.OnFallback(prompt, err)
	}
	return g.Fallback.Generate(ctx, prompt)
}

func shouldFallBack(err error) bool {
	return errors.Is(err, llm.ErrOllamaUnavailable) ||
		errors.Is(err, llm.ErrTimeout) ||
		errors.Is(err, llm.ErrInvalidOutput) ||
		errors.Is(err, llm.ErrRetryExhausted)
}

// New assembles the generator described by cfg. With the model disabled it
// is the offline generator alone.
func New(cfg llm.LLMConfig, client llm.LLMClient, onFallback func(string, error)) Generator {
	if !cfg.Enabled || client == nil {
		return OfflineGenerator{}
	}
	primary := NewLLMGenerator(client)
	if !cfg.Fallback {
		return primary
	}
	return &FallbackGenerator{
		Primary:    primary,
		Fallback:   OfflineGenerator{},
		OnFallback: onFallback,
	}
}
