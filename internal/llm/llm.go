// Package llm is the boundary to the generative capability. The store treats
// it as a black box that may fail; everything above it works identically with
// the real Gemini client or the deterministic fake.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when the model reply is not usable JSON.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Client generates a JSON document from a prompt plus structured input.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

type ctxKeyKind struct{}

// WithKind tags the context with the content kind being generated; clients and
// hooks use it for logging and fake dispatch.
func WithKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, ctxKeyKind{}, kind)
}

// KindFrom returns the content kind stored in the context.
func KindFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyKind{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
