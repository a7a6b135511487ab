// Package jsonx provides JSON helpers tolerant of the escaping quirks in
// model-produced payloads. Generated study content is HTML-heavy, and models
// occasionally return it with double-escaped unicode sequences ("\\u003c")
// or wrapped in an extra layer of string quoting.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Decode unmarshals a model reply into v. It first tries a direct
// unmarshal, then falls back to normalizing escaped unicode and re-quoted
// payloads before trying again.
func Decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err == nil {
		return nil
	}
	norm, err := Normalize(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// MarshalNoEscape encodes v without escaping <, >, and & so HTML fragments
// stay readable when embedded in prompts or logs.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Normalize parses raw JSON, unwrapping up to two layers of string quoting
// and unescaping doubled unicode sequences inside string values.
func Normalize(raw []byte) ([]byte, error) {
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		// The whole payload may be a JSON string containing JSON.
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, err
		}
		raw = []byte(s)
		if err := json.Unmarshal(raw, &val); err != nil {
			var s2 string
			if json.Unmarshal(raw, &s2) != nil || json.Unmarshal([]byte(s2), &val) != nil {
				return nil, errors.New("jsonx: cannot parse payload")
			}
		}
	}
	return MarshalNoEscape(unescapeDeep(val))
}

func unescapeDeep(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := unescapeString(x); err == nil {
			return s
		}
		return x
	case []any:
		for i := range x {
			x[i] = unescapeDeep(x[i])
		}
		return x
	case map[string]any:
		for k, vv := range x {
			x[k] = unescapeDeep(vv)
		}
		return x
	default:
		return v
	}
}

// unescapeString turns sequences like "\\u003e" into ">" by round-tripping
// the value through a quoted JSON string.
func unescapeString(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}
