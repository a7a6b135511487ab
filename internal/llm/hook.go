package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes requests crossing the generative boundary.
type PromptHook interface {
	Before(ctx context.Context, kind, prompt string, input any)
	After(ctx context.Context, kind string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}

// WithHook attaches a PromptHook to every GenerateJSON call through base.
func WithHook(base Client, hook PromptHook) Client {
	return &hooked{base: base, hook: hook}
}

type hooked struct {
	base Client
	hook PromptHook
}

func (h *hooked) Name() string { return h.base.Name() }
func (h *hooked) Close() error { return h.base.Close() }

func (h *hooked) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	ctx = context.WithValue(ctx, ctxKeyHook{}, h.hook)
	return h.base.GenerateJSON(ctx, prompt, input)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}
