// Package kdtransport is the boundary between debugger-transport hardware
// drivers and the framework that drives them: the caller-owned port
// descriptor, the five-entry function table each driver provides, and a
// registry of tables by static name.
package kdtransport

import (
	"geniuart/errcode"
	"geniuart/mmio"
)

// Port is the caller-owned descriptor handed to every table entry.
// Drivers read Address on each call, read and write BaudRate, and may keep
// per-port session state in Private. They never free the descriptor.
type Port struct {
	Address  uintptr
	BaudRate uint32
	Flags    uint32
	Bus      mmio.Bus

	// Private belongs to the driver that owns the port.
	Private any
}

// Status is the result of the byte-level entries.
type Status uint8

const (
	Success Status = iota
	NotReady
	NoData
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case NotReady:
		return "not_ready"
	case NoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// StatusOf maps a driver error onto the table status set. Anything that is
// neither nil nor NoData reports NotReady.
func StatusOf(err error) Status {
	switch errcode.Of(err) {
	case errcode.OK:
		return Success
	case errcode.NoData:
		return NoData
	default:
		return NotReady
	}
}

// Table is the fixed set of entry points a transport driver exposes.
type Table struct {
	Initialize func(p *Port, memoryMapped bool, accessSize, bitWidth uint8) bool
	SetBaud    func(p *Port, rate uint32) bool
	GetByte    func(p *Port) (byte, Status)
	PutByte    func(p *Port, b byte, busyWait bool) Status
	RxReady    func(p *Port) bool
}

// Complete reports whether every entry is populated.
func (t Table) Complete() bool {
	return t.Initialize != nil && t.SetBaud != nil && t.GetByte != nil &&
		t.PutByte != nil && t.RxReady != nil
}
