package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Primitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"int64", int64(-7), `-7`},
		{"uint32", uint32(9), `9`},
		{"empty array", []any{}, `[]`},
		{"empty object", map[string]any{}, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"b": 1, "a": 2, "c": []any{"z", true}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1,"c":["z",true]}`, string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+E000 sorts before U+1F600 in UTF-8 byte order but after it in UTF-16
	// (the emoji encodes to a surrogate pair starting 0xD83D).
	got, err := MarshalCanonical(map[string]any{"\uE000": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uE000\":1}", string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	decomposed := "e\u0301" // e + combining acute
	got, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	for name, v := range map[string]any{
		"nil":     nil,
		"float":   1.5,
		"struct":  struct{}{},
		"nested":  map[string]any{"x": 0.1},
		"in list": []any{nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalCanonical(v)
			assert.Error(t, err)
		})
	}
}

func TestDigest_DomainSeparated(t *testing.T) {
	a, err := Digest(DomainSnapshot, "x")
	require.NoError(t, err)
	b, err := Digest(DomainInput, "x")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}

func TestSnapshotDigest_StableAndSensitive(t *testing.T) {
	h := Handle{Index: 1, Gen: 1}
	s := Snapshot{
		Tick:   3,
		Models: []ModelState{{Handle: h, Kind: ModelTodo, Text: "a"}},
		Views: []ViewState{{
			Handle: Handle{Index: 2, Gen: 1}, Role: RoleTodoRow, Model: h,
			Parent: InSlot(SlotTodoList), Style: StyleNormal,
		}},
	}

	d1, err := s.Digest()
	require.NoError(t, err)
	d2, err := s.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	s.Models[0].Checked = true
	d3, err := s.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestSnapshot_Lookups(t *testing.T) {
	todo := Handle{Index: 1, Gen: 1}
	input := Handle{Index: 0, Gen: 1}
	s := Snapshot{
		Models: []ModelState{
			{Handle: input, Kind: ModelInput},
			{Handle: todo, Kind: ModelTodo, Text: "a"},
		},
		Views: []ViewState{
			{Handle: Handle{Index: 2, Gen: 1}, Model: input},
			{Handle: Handle{Index: 3, Gen: 1}, Model: todo},
			{Handle: Handle{Index: 4, Gen: 1}, Model: todo},
		},
	}

	m, ok := s.Model(todo)
	require.True(t, ok)
	assert.Equal(t, "a", m.Text)
	_, ok = s.Model(Handle{Index: 9, Gen: 1})
	assert.False(t, ok)

	assert.Len(t, s.ViewsOf(todo), 2)
	assert.Len(t, s.Todos(), 1)
}
