// Package bytering is a fixed-size single-producer, single-consumer byte
// ring. Readable and Writable carry a coalesced signal after every put and
// get respectively; a waiter must re-check the ring after each wake.
package bytering

import "sync/atomic"

// Ring is safe for one writer goroutine and one reader goroutine.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // data was put
	writable chan struct{} // space was made
}

// New returns a ring of size bytes. size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || size&(size-1) != 0 {
		panic("bytering: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Used() int { return int(r.wr.Load() - r.rd.Load()) }

func (r *Ring) Space() int { return len(r.buf) - r.Used() }

// Put appends one byte. It reports false when the ring is full.
func (r *Ring) Put(b byte) bool {
	rd, wr := r.rd.Load(), r.wr.Load()
	if int(wr-rd) == len(r.buf) {
		return false
	}
	r.buf[wr&r.mask] = b
	r.wr.Store(wr + 1)
	notify(r.readable)
	return true
}

// Get removes one byte. It reports false when the ring is empty.
func (r *Ring) Get() (byte, bool) {
	rd, wr := r.rd.Load(), r.wr.Load()
	if rd == wr {
		return 0, false
	}
	b := r.buf[rd&r.mask]
	r.rd.Store(rd + 1)
	notify(r.writable)
	return b, true
}

// Read copies up to len(dst) bytes out of the ring.
func (r *Ring) Read(dst []byte) int {
	n := 0
	for n < len(dst) {
		b, ok := r.Get()
		if !ok {
			break
		}
		dst[n] = b
		n++
	}
	return n
}

// Write copies as much of src as fits.
func (r *Ring) Write(src []byte) int {
	n := 0
	for n < len(src) && r.Put(src[n]) {
		n++
	}
	return n
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
