// internal/intel/oracle/decode.go
package oracle

import (
	"encoding/json"
	"strconv"
	"strings"

	apperrors "intelcorp/internal/common/errors"
)

// DecodeJSON strips a code fence from an oracle answer and decodes it into a
// generic value (map, slice or scalar). Failures are DECODE_ERROR.
func DecodeJSON(source, text string) (interface{}, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, apperrors.NewDecodeError(source, errEmptyBody)
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, apperrors.NewDecodeError(source, err)
	}
	return doc, nil
}

type decodeErr string

func (e decodeErr) Error() string { return string(e) }

const errEmptyBody = decodeErr("empty answer")

// IsAbsent reports whether an oracle string stands for "no value".
func IsAbsent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "none", "nil", "n/a", "—", "-":
		return true
	}
	return false
}

// AsText coerces a decoded scalar to a trimmed string. Absent markers,
// objects and arrays become "".
func AsText(v interface{}) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	case json.Number:
		s = t.String()
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	if IsAbsent(s) {
		return ""
	}
	return s
}

// AsTextList coerces an array of scalars, dropping absent entries. A single
// scalar becomes a one-element list.
func AsTextList(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s := AsText(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := AsText(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AsObject returns v as an object, or an empty map.
func AsObject(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// AsScore reads a number or numeric string, rounds it and clamps it to
// [0,100]. ok is false when v carries no number.
func AsScore(v interface{}) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "/100"))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return ClampScore(int(f + 0.5*sign(f))), true
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
