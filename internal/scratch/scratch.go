// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package scratch provides the per-call scratch-memory provider an
// adapter leases for the duration of one invoke call.
// It wraps github.com/valyala/bytebufferpool so repeated tool calls don't
// each pay for a fresh heap allocation.
package scratch

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Buffer is a reusable byte buffer leased from a Pool. It must be
// returned via Pool.Put once the call that leased it has finished with
// it; reusing a Buffer after Put is undefined.
type Buffer interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
	Bytes() []byte
	Reset()
	ReadFrom(r io.Reader) (int64, error)
}

// Pool leases and reclaims Buffers. Implementations must be safe for
// concurrent use, even though tinymcp's own dispatcher never calls
// invoke concurrently — a handler may itself fan work out across
// goroutines that each touch the pool.
type Pool interface {
	Get() Buffer
	Put(b Buffer)
}

type pool struct{ p *bytebufferpool.Pool }

func (p *pool) Get() Buffer { return p.p.Get() }

func (p *pool) Put(b Buffer) {
	if buf, ok := b.(*bytebufferpool.ByteBuffer); ok {
		p.p.Put(buf)
	}
}

// Default is the scratch pool the tool adapter built by tinymcp.AddTool
// leases from on every call. Lease and release it around one invoke:
//
//	buf := scratch.Default.Get()
//	defer func() {
//		buf.Reset()
//		scratch.Default.Put(buf)
//	}()
var Default Pool = &pool{p: &bytebufferpool.Pool{}}
