package generator

import (
	"bytes"
	"sync"

	"github.com/erraggy/oasconnect/mapper"
)

// Tiered render buffer sizes, keyed by the number of fields or modules a
// template iterates over.
const (
	smallBufferSize  = 8 * 1024  // <10 items
	mediumBufferSize = 32 * 1024 // 10-50 items
	largeBufferSize  = 64 * 1024 // 50+ items

	maxPooledBuffer = 1 << 20
)

var bufferPools = [3]sync.Pool{
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, smallBufferSize)) }},
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, mediumBufferSize)) }},
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, largeBufferSize)) }},
}

func bufferTier(items int) int {
	switch {
	case items < 10:
		return 0
	case items < 50:
		return 1
	default:
		return 2
	}
}

// getRenderBuffer returns an empty buffer sized for items.
func getRenderBuffer(items int) *bytes.Buffer {
	buf := bufferPools[bufferTier(items)].Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putRenderBuffer returns buf to its pool. Oversized buffers are dropped.
func putRenderBuffer(buf *bytes.Buffer, items int) {
	if buf == nil || buf.Cap() > maxPooledBuffer {
		return
	}
	bufferPools[bufferTier(items)].Put(buf)
}

// fieldCount counts every field in a module's input and output trees.
func fieldCount(fields ...*mapper.Field) int {
	n := 0
	for _, f := range fields {
		f.Walk(func(*mapper.Field) { n++ })
	}
	return n
}
