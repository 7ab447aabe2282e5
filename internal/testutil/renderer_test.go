package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mvsync/internal/ir"
)

func TestRecordingRenderer(t *testing.T) {
	r := &RecordingRenderer{}
	assert.Nil(t, r.Last())

	batch := []ir.Effect{ir.SetText{Text: "a"}, ir.RequestFocus{}}
	r.Apply(batch)
	batch[0] = ir.SetText{Text: "mutated"}
	r.Apply([]ir.Effect{ir.SetViewport{Width: 80, Height: 24}})

	assert.Len(t, r.Batches(), 2)
	assert.Equal(t, []string{"set_text", "request_focus", "set_viewport"}, r.Kinds())
	assert.Equal(t, ir.SetText{Text: "a"}, r.Effects()[0], "batches are copied on Apply")
	assert.Equal(t, []ir.Effect{ir.SetViewport{Width: 80, Height: 24}}, r.Last())

	r.Reset()
	assert.Empty(t, r.Effects())
}
