package mmio

import "sync"

// ReadHook overrides the value returned for one address. ok=false falls back
// to the stored value.
type ReadHook func(addr uintptr) (v uint32, ok bool)

// WriteHook observes a write after it has been stored.
type WriteHook func(addr uintptr, v uint32)

// RegFile is a sparse register file. Unwritten registers read as zero.
// Every access is appended to the log while recording is on.
type RegFile struct {
	mu    sync.Mutex
	regs  map[uintptr]uint32
	log   []Access
	rec   bool
	onRd  map[uintptr]ReadHook
	onWr  map[uintptr]WriteHook
}

func NewRegFile() *RegFile {
	return &RegFile{
		regs: map[uintptr]uint32{},
		rec:  true,
		onRd: map[uintptr]ReadHook{},
		onWr: map[uintptr]WriteHook{},
	}
}

// Ensure compile-time conformance with Bus.
var _ Bus = (*RegFile)(nil)

func (f *RegFile) Read32(addr uintptr) uint32 {
	f.mu.Lock()
	h := f.onRd[addr]
	v := f.regs[addr]
	f.mu.Unlock()
	if h != nil {
		if hv, ok := h(addr); ok {
			v = hv
		}
	}
	f.mu.Lock()
	if f.rec {
		f.log = append(f.log, Access{Op: OpRead, Addr: addr, Val: v})
	}
	f.mu.Unlock()
	return v
}

func (f *RegFile) Write32(addr uintptr, v uint32) {
	f.mu.Lock()
	f.regs[addr] = v
	if f.rec {
		f.log = append(f.log, Access{Op: OpWrite, Addr: addr, Val: v})
	}
	h := f.onWr[addr]
	f.mu.Unlock()
	if h != nil {
		h(addr, v)
	}
}

// Poke sets a register without recording an access.
func (f *RegFile) Poke(addr uintptr, v uint32) {
	f.mu.Lock()
	f.regs[addr] = v
	f.mu.Unlock()
}

// Peek returns the stored value without recording an access or running hooks.
func (f *RegFile) Peek(addr uintptr) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[addr]
}

func (f *RegFile) OnRead(addr uintptr, h ReadHook) {
	f.mu.Lock()
	f.onRd[addr] = h
	f.mu.Unlock()
}

func (f *RegFile) OnWrite(addr uintptr, h WriteHook) {
	f.mu.Lock()
	f.onWr[addr] = h
	f.mu.Unlock()
}

// Record turns access logging on or off.
func (f *RegFile) Record(on bool) {
	f.mu.Lock()
	f.rec = on
	f.mu.Unlock()
}

// Log returns a copy of the recorded accesses.
func (f *RegFile) Log() []Access {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Access(nil), f.log...)
}

// Writes returns the recorded writes only, in order.
func (f *RegFile) Writes() []Access {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Access
	for _, a := range f.log {
		if a.Op == OpWrite {
			out = append(out, a)
		}
	}
	return out
}

// ResetLog drops the recorded accesses.
func (f *RegFile) ResetLog() {
	f.mu.Lock()
	f.log = f.log[:0]
	f.mu.Unlock()
}
