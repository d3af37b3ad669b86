package oracle

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "intelcorp/internal/common/errors"
)

func TestDecodeJSON(t *testing.T) {
	doc, err := DecodeJSON("test", "```json\n[{\"nom\":\"Acme\"}]\n```")
	require.NoError(t, err)
	arr, ok := doc.([]interface{})
	require.True(t, ok)
	assert.Len(t, arr, 1)

	_, err = DecodeJSON("test", "I cannot help with that.")
	assert.True(t, stderrors.Is(err, apperrors.ErrDecode))

	_, err = DecodeJSON("test", "```json\n```")
	assert.True(t, stderrors.Is(err, apperrors.ErrDecode))
}

func TestAsText(t *testing.T) {
	assert.Equal(t, "Zug", AsText(" Zug "))
	assert.Equal(t, "", AsText("null"))
	assert.Equal(t, "", AsText("None"))
	assert.Equal(t, "", AsText("—"))
	assert.Equal(t, "1994", AsText(1994.0))
	assert.Equal(t, "12.5", AsText(12.5))
	assert.Equal(t, "true", AsText(true))
	assert.Equal(t, "", AsText(nil))
	assert.Equal(t, "", AsText(map[string]interface{}{"a": "b"}))
}

func TestAsTextList(t *testing.T) {
	assert.Equal(t, []string{"Zinc", "Copper"}, AsTextList([]interface{}{"Zinc", "null", "", "Copper"}))
	assert.Equal(t, []string{"Oil"}, AsTextList("Oil"))
	assert.Equal(t, []string{}, AsTextList(nil))
}

func TestAsScore(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		expected int
		ok       bool
	}{
		{"number", 40.0, 40, true},
		{"rounds", 40.6, 41, true},
		{"numeric string", " 55 ", 55, true},
		{"out of hundred", "70/100", 70, true},
		{"clamps high", 150.0, 100, true},
		{"clamps low", -3.0, 0, true},
		{"text", "high", 0, false},
		{"missing", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := AsScore(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestAsObject(t *testing.T) {
	assert.Empty(t, AsObject("x"))
	assert.Equal(t, "b", AsObject(map[string]interface{}{"a": "b"})["a"])
}
