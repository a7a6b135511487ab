package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per content kind for
// offline runs and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	kind := KindFrom(ctx)
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, kind, prompt, input)
	}
	var obj any
	switch kind {
	case "syllabus_topics":
		obj = map[string]any{
			"topics": []any{
				map[string]any{"name": "Placeholder Topic A", "summary": "fake summary A"},
				map[string]any{"name": "Placeholder Topic B", "summary": "fake summary B"},
			},
		}
	case "quiz":
		obj = map[string]any{
			"content": "<style>.quiz{font-weight:bold}</style>" +
				"<div class=\"quiz\"><p>Q1: fake question?</p>" +
				"<button data-ok=\"1\">yes</button><button>no</button></div>" +
				"<script>document.querySelectorAll('.quiz button').forEach(function(b){" +
				"b.onclick=function(){b.textContent=b.dataset.ok?'correct':'wrong'}})</script>",
		}
	case "visual_map":
		obj = map[string]any{
			"content": "<div class=\"concept-map\"><ul><li>fake central concept" +
				"<ul><li>fake branch 1</li><li>fake branch 2</li></ul></li></ul></div>",
		}
	case "mnemonics":
		obj = map[string]any{"content": "<p>Fake Mnemonic: Every Good Student Studies Daily.</p>"}
	default:
		obj = map[string]any{"content": "<p>fake explanation for offline use</p>"}
	}
	raw, _ := json.Marshal(obj)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, kind, raw, nil)
	}
	return raw, nil
}
