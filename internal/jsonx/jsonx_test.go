package jsonx

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeDirect(t *testing.T) {
	var out struct {
		Content string `json:"content"`
	}
	raw := json.RawMessage(`{"content":"<div>ok</div>"}`)
	if err := Decode(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != "<div>ok</div>" {
		t.Fatalf("got %q", out.Content)
	}
}

func TestDecodeDoubleEscaped(t *testing.T) {
	var out struct {
		Content string `json:"content"`
	}
	raw := json.RawMessage(`{"content":"\\u003cdiv\\u003eok\\u003c/div\\u003e"}`)
	if err := Decode(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Content != "<div>ok</div>" {
		t.Fatalf("got %q", out.Content)
	}
}

func TestDecodeQuotedPayload(t *testing.T) {
	inner := `{"topics":[{"name":"Sets"}]}`
	quoted, _ := json.Marshal(inner)
	var out struct {
		Topics []struct {
			Name string `json:"name"`
		} `json:"topics"`
	}
	if err := Decode(quoted, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Topics) != 1 || out.Topics[0].Name != "Sets" {
		t.Fatalf("got %+v", out.Topics)
	}
}

func TestDecodeGarbage(t *testing.T) {
	var out map[string]any
	if err := Decode(json.RawMessage(`{nope`), &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"html": "<b>&amp;</b>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `<`) {
		t.Fatalf("angle brackets escaped: %s", b)
	}
	if !strings.Contains(string(b), "<b>") {
		t.Fatalf("missing markup: %s", b)
	}
}
