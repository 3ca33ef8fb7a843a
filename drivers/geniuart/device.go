// Package geniuart is a polled driver for the UART personality of a Qualcomm
// GENI serial engine, used as a kernel-debugger transport.
//
// The driver is strictly register-polled: no interrupts, no DMA. Waits on
// hardware status go through a Waiter, which by default spins forever; hosts
// that can afford a deadline supply a bounded one.
//
// Receive is byte-at-a-time over a word-oriented RX FIFO, so each Device keeps
// a small cache of bytes drained from the FIFO. Callers must serialise access
// to a Device.
package geniuart

import (
	"geniuart/errcode"
	"geniuart/services/kdtransport"
)

// Config tunes a Device. The zero value is valid.
type Config struct {
	// Waiter bounds hardware waits. Nil means Spin.
	Waiter Waiter
}

// Device is the driver session bound to one port descriptor.
type Device struct {
	port *kdtransport.Port
	wait Waiter

	rx rxCache

	// FIFO depths in words, read back during Initialize.
	txDepth uint32
	rxDepth uint32

	dbg debugState
}

// New binds a driver session to p. p remains owned by the caller.
func New(p *kdtransport.Port, cfg Config) *Device {
	w := cfg.Waiter
	if w == nil {
		w = Spin{}
	}
	return &Device{port: p, wait: w}
}

// Attach creates a session for p and stores it in p.Private so the transport
// table entries use it.
func Attach(p *kdtransport.Port, cfg Config) *Device {
	d := New(p, cfg)
	if p != nil {
		p.Private = d
	}
	return d
}

// session returns the Device stored in p, creating a default one on first use.
// A port whose Private slot holds anything else belongs to another driver and
// yields nil, which every operation reports as not ready.
func session(p *kdtransport.Port) *Device {
	if p == nil {
		return nil
	}
	switch d := p.Private.(type) {
	case nil:
		return Attach(p, Config{})
	case *Device:
		if d == nil || d.port != p {
			return Attach(p, Config{})
		}
		return d
	default:
		return nil
	}
}

// Port returns the descriptor the session is bound to.
func (d *Device) Port() *kdtransport.Port { return d.port }

// FIFODepths returns the TX and RX FIFO depths in words, as read from the
// hardware parameter registers by Initialize. Both are zero before that.
func (d *Device) FIFODepths() (tx, rx uint32) {
	return d.txDepth, d.rxDepth
}

// Buffered returns the number of bytes held in the receive cache.
func (d *Device) Buffered() int { return d.rx.avail }

// ready reports whether the session has a port with a base address and an
// accessor to reach it.
func (d *Device) ready() bool {
	return d != nil && d.port != nil && d.port.Address != 0 && d.port.Bus != nil
}

func (d *Device) read(block, reg uintptr) uint32 {
	return d.port.Bus.Read32(Addr(d.port.Address, block, reg))
}

func (d *Device) write(block, reg uintptr, v uint32) {
	d.port.Bus.Write32(Addr(d.port.Address, block, reg), v)
}

// setBits is a read-modify-write that ORs mask into a register.
func (d *Device) setBits(block, reg uintptr, mask uint32) {
	d.write(block, reg, d.read(block, reg)|mask)
}

// waitIdle waits for the given GENI_STATUS bit to clear.
func (d *Device) waitIdle(bit uint32) bool {
	return d.wait.Until(func() bool {
		return d.read(BlockConfig, RegStatus)&bit == 0
	})
}

func notReady(op string) error { return &errcode.E{C: errcode.NotReady, Op: op} }
