package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for document analysis.
type Client interface {
	Summarize(ctx context.Context, text string) (string, error)
	SuggestCategory(ctx context.Context, text string, categories []string) (string, error)
	AssessRisk(ctx context.Context, text string) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Summarize returns ErrNotImplemented.
func (PlaceholderClient) Summarize(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotImplemented
}

// SuggestCategory returns ErrNotImplemented.
func (PlaceholderClient) SuggestCategory(ctx context.Context, text string, categories []string) (string, error) {
	_ = ctx
	_ = text
	_ = categories
	return "", ErrNotImplemented
}

// AssessRisk returns ErrNotImplemented.
func (PlaceholderClient) AssessRisk(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotImplemented
}
