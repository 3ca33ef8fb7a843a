// Package sesim is a behavioural model of a GENI serial engine running the
// UART image, exposed through mmio.Bus. It models the parts the polled
// driver observes: command-active status, RX word FIFO and its status word,
// secondary IRQ status/clear, and single-byte TX.
package sesim

import (
	"sync"

	"geniuart/drivers/geniuart"
	"geniuart/mmio"
	"geniuart/services/kdtransport"
	"geniuart/x/mathx"
)

// DefaultBase is the SE base address used when Config.Base is zero.
const DefaultBase uintptr = 0x0098_4000

// Config sizes the modelled engine.
type Config struct {
	Base        uintptr
	TxFifoDepth uint32 // words; default 16
	RxFifoDepth uint32 // words; default 16
	Loopback    bool   // transmitted bytes are queued for receive
}

// SE is a simulated serial engine. All methods are safe for concurrent use.
type SE struct {
	*mmio.RegFile

	base uintptr
	cfg  Config

	mu        sync.Mutex
	rx        []byte
	tx        []byte
	sirq      uint32
	mBusy     int
	txPending uint32
	lag       bool
	reading   bool
}

func New(cfg Config) *SE {
	if cfg.Base == 0 {
		cfg.Base = DefaultBase
	}
	if cfg.TxFifoDepth == 0 {
		cfg.TxFifoDepth = 16
	}
	if cfg.RxFifoDepth == 0 {
		cfg.RxFifoDepth = 16
	}
	s := &SE{RegFile: mmio.NewRegFile(), base: cfg.Base, cfg: cfg}

	s.Poke(s.addr(geniuart.BlockDMA, geniuart.RegHWParam0), cfg.TxFifoDepth<<geniuart.FifoDepthShift)
	s.Poke(s.addr(geniuart.BlockDMA, geniuart.RegHWParam1), cfg.RxFifoDepth<<geniuart.FifoDepthShift)

	s.OnRead(s.addr(geniuart.BlockConfig, geniuart.RegStatus), s.readStatus)
	s.OnRead(s.addr(geniuart.BlockData, geniuart.RegRxFifoStatus), s.readRxFifoStatus)
	s.OnRead(s.addr(geniuart.BlockData, geniuart.RegSIrqStatus), s.readSIrq)
	s.OnWrite(s.addr(geniuart.BlockData, geniuart.RegSIrqClear), s.clearSIrq)
	s.OnWrite(s.addr(geniuart.BlockData, geniuart.RegMCmd0), s.mCmd)
	s.OnWrite(s.addr(geniuart.BlockData, geniuart.RegSCmd0), s.sCmd)
	s.OnWrite(s.addr(geniuart.BlockData, geniuart.FifoWord(geniuart.RegTxFifo, 0)), s.txWord)
	for i := uint32(0); i < 2*cfg.RxFifoDepth || i < 64; i++ {
		s.OnRead(s.addr(geniuart.BlockData, geniuart.FifoWord(geniuart.RegRxFifo, i)), s.rxWord)
	}
	return s
}

func (s *SE) addr(block, reg uintptr) uintptr { return geniuart.Addr(s.base, block, reg) }

// Base returns the modelled base address.
func (s *SE) Base() uintptr { return s.base }

// Port returns a descriptor addressing this engine at the given baud rate.
func (s *SE) Port(baud uint32) *kdtransport.Port {
	return &kdtransport.Port{Address: s.base, BaudRate: baud, Bus: s}
}

// Reg reads a register without recording the access.
func (s *SE) Reg(block, reg uintptr) uint32 { return s.Peek(s.addr(block, reg)) }

// Addr returns the absolute address of a register in this engine.
func (s *SE) Addr(block, reg uintptr) uintptr { return s.addr(block, reg) }

// Feed queues bytes as if they arrived on the line.
func (s *SE) Feed(p []byte) {
	s.mu.Lock()
	s.rx = append(s.rx, p...)
	s.raiseLocked()
	s.mu.Unlock()
}

// Pending returns the number of bytes still in the RX FIFO.
func (s *SE) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}

// Transmitted returns and clears the bytes captured from the TX path.
func (s *SE) Transmitted() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tx
	s.tx = nil
	return out
}

// SetBusy makes the primary command engine report active for the next n
// status reads. A negative n keeps it active until SetBusy is called again.
func (s *SE) SetBusy(n int) {
	s.mu.Lock()
	s.mBusy = n
	s.mu.Unlock()
}

// SetStatusLag makes RX_FIFO_STATUS read as empty while bytes are queued,
// reproducing a status word that trails the watermark interrupt.
func (s *SE) SetStatusLag(on bool) {
	s.mu.Lock()
	s.lag = on
	s.mu.Unlock()
}

// Receiving reports whether the secondary sequencer was started.
func (s *SE) Receiving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

// raiseLocked latches the secondary RX interrupts for the current level.
func (s *SE) raiseLocked() {
	if len(s.rx) == 0 {
		return
	}
	s.sirq |= geniuart.IrqRxFifoLast
	wm := s.Peek(s.addr(geniuart.BlockData, geniuart.RegRxWatermark))
	if wm > 0 && mathx.CeilDiv(uint32(len(s.rx)), 4) >= wm {
		s.sirq |= geniuart.IrqRxFifoWatermark
	}
}

func (s *SE) readStatus(uintptr) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v uint32
	if s.mBusy != 0 {
		v |= geniuart.StatusMCmdActive
		if s.mBusy > 0 {
			s.mBusy--
		}
	}
	if s.reading {
		v |= geniuart.StatusSCmdActive
	}
	return v, true
}

func (s *SE) readRxFifoStatus(uintptr) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lag {
		return 0, true
	}
	return rxFifoStatus(len(s.rx)), true
}

// rxFifoStatus encodes n queued bytes. The word count includes a trailing
// partial word, whose valid byte count is reported with the last flag.
func rxFifoStatus(n int) uint32 {
	if n == 0 {
		return 0
	}
	v := mathx.CeilDiv(uint32(n), 4)
	if last := uint32(n % 4); last != 0 {
		v |= last<<geniuart.RxLastByteValidShift | geniuart.RxFifoLast
	}
	return v
}

func (s *SE) readSIrq(uintptr) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sirq, true
}

func (s *SE) clearSIrq(_ uintptr, v uint32) {
	s.mu.Lock()
	s.sirq &^= v
	s.mu.Unlock()
}

// rxWord pops the next FIFO word; reading an empty FIFO returns zero.
func (s *SE) rxWord(uintptr) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := mathx.Min(len(s.rx), 4)
	var w uint32
	for i := 0; i < n; i++ {
		w |= uint32(s.rx[i]) << (8 * i)
	}
	s.rx = s.rx[n:]
	return w, true
}

func (s *SE) mCmd(_ uintptr, v uint32) {
	if v>>geniuart.OpcodeShift != geniuart.OpUARTStartTx {
		return
	}
	n := s.Peek(s.addr(geniuart.BlockImage, geniuart.RegTxTransLen))
	s.mu.Lock()
	s.txPending = n
	s.mu.Unlock()
}

func (s *SE) sCmd(_ uintptr, v uint32) {
	s.mu.Lock()
	s.reading = v>>geniuart.OpcodeShift == geniuart.OpUARTStartRead
	s.mu.Unlock()
}

func (s *SE) txWord(_ uintptr, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txPending == 0 {
		return
	}
	s.txPending--
	b := byte(v)
	s.tx = append(s.tx, b)
	if s.cfg.Loopback {
		s.rx = append(s.rx, b)
		s.raiseLocked()
	}
}
