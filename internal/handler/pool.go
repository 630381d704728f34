package handler

import (
	"bytes"
	"sync"
)

const (
	bufferInitialSize = 512
	// bufferMaxRetained keeps multi-megabyte simulation reports from
	// pinning memory in the pool after they are written out.
	bufferMaxRetained = 64 * 1024
)

// bufferPool reuses encode buffers across responses.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, bufferInitialSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > bufferMaxRetained {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
