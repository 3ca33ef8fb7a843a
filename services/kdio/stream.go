// Package kdio adapts a polled debugger transport to a host byte stream.
//
// A Stream owns one port. Run pumps received bytes from the transport into a
// ring so readers never poll hardware themselves; writes go straight through
// the transport one byte at a time.
package kdio

import (
	"context"
	"sync"
	"time"

	"tinygo.org/x/drivers"

	"geniuart/errcode"
	"geniuart/services/kdtransport"
	"geniuart/x/bytering"
	"geniuart/x/mathx"
	"geniuart/x/timex"
)

// Config tunes a Stream. The zero value is valid.
type Config struct {
	RxSize int           // ring size, rounded up to a power of two; default 512
	Poll   time.Duration // idle poll interval; default one character time at the port baud
}

// Stream is a byte stream over a transport table and port.
type Stream struct {
	tbl  kdtransport.Table
	port *kdtransport.Port
	rx   *bytering.Ring
	poll time.Duration

	// Transport entries are not reentrant for a port.
	mu sync.Mutex
}

// Ensure compile-time conformance with drivers.UART.
var _ drivers.UART = (*Stream)(nil)

// New wraps an initialised port.
func New(tbl kdtransport.Table, p *kdtransport.Port, cfg Config) *Stream {
	size := cfg.RxSize
	if size <= 0 {
		size = 512
	}
	poll := cfg.Poll
	if poll <= 0 {
		poll = timex.CharTime(p.BaudRate, 10)
	}
	return &Stream{
		tbl:  tbl,
		port: p,
		rx:   bytering.New(mathx.NextPow2(size)),
		poll: poll,
	}
}

// Open looks up a registered transport, initialises p through it and wraps it.
func Open(name string, p *kdtransport.Port, cfg Config) (*Stream, error) {
	tbl, err := kdtransport.MustLookup(name)
	if err != nil {
		return nil, err
	}
	if !tbl.Initialize(p, true, 0, 0) {
		return nil, &errcode.E{C: errcode.NotReady, Op: "open", Msg: name}
	}
	return New(tbl, p, cfg), nil
}

func (s *Stream) Port() *kdtransport.Port { return s.port }

// Run moves received bytes into the ring until ctx is done. It must be the
// only reader of the transport for this port.
func (s *Stream) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		timex.DrainTimer(timer)
	}
	defer timer.Stop()

	for {
		n := s.pumpOnce()
		if n > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if s.rx.Space() == 0 {
			// Wait for the reader to make room.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.rx.Writable():
			}
			continue
		}
		timex.ResetTimer(timer, s.poll)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pumpOnce drains whatever the transport has ready into the ring and returns
// the number of bytes moved.
func (s *Stream) pumpOnce() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for s.rx.Space() > 0 && s.tbl.RxReady(s.port) {
		b, st := s.tbl.GetByte(s.port)
		if st != kdtransport.Success {
			break
		}
		s.rx.Put(b)
		n++
	}
	return n
}

// Buffered returns the number of received bytes waiting in the ring.
func (s *Stream) Buffered() int { return s.rx.Used() }

// Readable is signalled after bytes are added to the ring.
func (s *Stream) Readable() <-chan struct{} { return s.rx.Readable() }

// Read copies buffered bytes into p without blocking. It returns 0, nil when
// nothing is buffered.
func (s *Stream) Read(p []byte) (int, error) { return s.rx.Read(p), nil }

// ReadByte returns one buffered byte, or errcode.NoData.
func (s *Stream) ReadByte() (byte, error) {
	b, ok := s.rx.Get()
	if !ok {
		return 0, errcode.NoData
	}
	return b, nil
}

// RecvSomeContext blocks until at least one byte is buffered or ctx is done.
func (s *Stream) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		if n := s.rx.Read(p); n > 0 || len(p) == 0 {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-s.rx.Readable():
		}
	}
}

// WriteByte transmits one byte, waiting for the transmitter.
func (s *Stream) WriteByte(b byte) error {
	s.mu.Lock()
	st := s.tbl.PutByte(s.port, b, true)
	s.mu.Unlock()
	if st != kdtransport.Success {
		return &errcode.E{C: errcode.NotReady, Op: "write_byte"}
	}
	return nil
}

// Write transmits p byte by byte and stops at the first failure.
func (s *Stream) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := s.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}
