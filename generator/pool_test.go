package generator

import (
	"testing"

	"github.com/erraggy/oasconnect/mapper"
	"github.com/stretchr/testify/assert"
)

func TestRenderBufferTiers(t *testing.T) {
	tests := []struct {
		items   int
		minSize int
	}{
		{0, smallBufferSize},
		{25, mediumBufferSize},
		{100, largeBufferSize},
	}
	for _, tt := range tests {
		buf := getRenderBuffer(tt.items)
		assert.GreaterOrEqual(t, buf.Cap(), tt.minSize)
		assert.Zero(t, buf.Len())
		buf.WriteString("package x\n")
		putRenderBuffer(buf, tt.items)
	}

	again := getRenderBuffer(0)
	assert.Zero(t, again.Len(), "pooled buffers are reset")
	putRenderBuffer(again, 0)
	putRenderBuffer(nil, 0)
}

func TestFieldCount(t *testing.T) {
	input := &mapper.Field{Type: mapper.TypeGroup, Fields: []*mapper.Field{
		{Name: "id", Type: mapper.TypeInteger},
		{Name: "tags", Type: mapper.TypeList, Item: &mapper.Field{Type: mapper.TypeString}},
	}}
	assert.Equal(t, 4, fieldCount(input, nil))
	assert.Zero(t, fieldCount())
}

func BenchmarkRenderBuffer(b *testing.B) {
	for b.Loop() {
		buf := getRenderBuffer(25)
		buf.WriteString("package main\n\nfunc main() {}\n")
		putRenderBuffer(buf, 25)
	}
}
