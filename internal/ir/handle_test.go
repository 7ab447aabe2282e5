package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_NilIsZero(t *testing.T) {
	var h Handle
	assert.True(t, h.IsNil())
	assert.Equal(t, Nil, h)
	assert.Equal(t, "nil", h.String())
}

func TestHandle_StringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Handle
		text string
	}{
		{"nil", Nil, "nil"},
		{"first slot", Handle{Index: 0, Gen: 1}, "0:1"},
		{"reused slot", Handle{Index: 7, Gen: 3}, "7:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.h.String())
			parsed, err := ParseHandle(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.h, parsed)
		})
	}
}

func TestParseHandle_Invalid(t *testing.T) {
	for _, s := range []string{"7", "a:1", "1:b", "1:0", "-1:2"} {
		_, err := ParseHandle(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestHandle_JSONUsesTextForm(t *testing.T) {
	data, err := json.Marshal(struct {
		H Handle `json:"h"`
	}{H: Handle{Index: 2, Gen: 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"h":"2:5"}`, string(data))

	var out struct {
		H Handle `json:"h"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, Handle{Index: 2, Gen: 5}, out.H)
}

func TestHandle_SameIndexDifferentGenerationDiffer(t *testing.T) {
	a := Handle{Index: 4, Gen: 1}
	b := Handle{Index: 4, Gen: 2}
	assert.NotEqual(t, a, b)
}
