package kdio

import (
	"context"
	"time"

	"geniuart/x/mathx"
	"geniuart/x/timex"
)

// Dir is the direction of a traffic event.
type Dir uint8

const (
	DirRX Dir = iota
	DirTX
)

func (d Dir) String() string {
	if d == DirTX {
		return "tx"
	}
	return "rx"
}

// Event is a chunk of traffic seen on a stream.
type Event struct {
	Name string
	Dir  Dir
	Data []byte
	TS   time.Time
}

// Mode selects how received bytes are framed into events.
type Mode uint8

const (
	ModeBytes Mode = iota // raw chunks, binary-safe
	ModeLines             // LF-terminated lines, CR dropped
)

// MonitorCfg configures one watched stream.
type MonitorCfg struct {
	Name      string
	Stream    *Stream
	Mode      Mode
	MaxFrame  int           // clamp 16..256
	IdleFlush time.Duration // clamp 0..2s; flushes a partial line (lines mode)
}

// Monitor turns stream traffic into events on a bounded queue. Events are
// dropped, not queued, when the consumer falls behind.
type Monitor struct {
	outQ chan Event
}

func NewMonitor(outBuf int) *Monitor {
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Monitor{outQ: make(chan Event, outBuf)}
}

func (m *Monitor) Events() <-chan Event { return m.outQ }

func (m *Monitor) emit(ev Event) {
	select {
	case m.outQ <- ev:
	default:
	}
}

// Watch starts a reader goroutine for cfg.Stream. It returns a cancel func.
// The stream's Run pump must be running for data to arrive.
func (m *Monitor) Watch(ctx context.Context, cfg MonitorCfg) func() {
	max := mathx.Clamp(cfg.MaxFrame, 16, 256)
	idle := mathx.Clamp(cfg.IdleFlush, 0, 2*time.Second)
	cctx, cancel := context.WithCancel(ctx)

	go func() {
		buf := make([]byte, max)
		var line []byte

		timer := time.NewTimer(time.Hour)
		if !timer.Stop() {
			timex.DrainTimer(timer)
		}
		defer timer.Stop()

		flush := func(now time.Time) {
			if len(line) == 0 {
				return
			}
			m.emit(Event{Name: cfg.Name, Dir: DirRX, Data: append([]byte(nil), line...), TS: now})
			line = line[:0]
		}

		for {
			if cfg.Mode == ModeLines && len(line) > 0 && idle > 0 {
				timex.ResetTimer(timer, idle)
			} else {
				timex.ResetTimer(timer, time.Hour)
			}
			select {
			case <-cctx.Done():
				return
			case <-timer.C:
				flush(time.Now())
			case <-cfg.Stream.Readable():
				// Signals coalesce; drain fully.
				for {
					n, _ := cfg.Stream.Read(buf)
					if n == 0 {
						break
					}
					now := time.Now()
					if cfg.Mode != ModeLines {
						m.emit(Event{Name: cfg.Name, Dir: DirRX, Data: append([]byte(nil), buf[:n]...), TS: now})
						continue
					}
					for _, b := range buf[:n] {
						switch b {
						case '\n':
							flush(now)
						case '\r':
						default:
							if len(line) < max {
								line = append(line, b)
							}
						}
					}
				}
			}
		}
	}()
	return cancel
}

// EmitTX publishes a TX echo event.
func (m *Monitor) EmitTX(name string, data []byte) {
	m.emit(Event{Name: name, Dir: DirTX, Data: append([]byte(nil), data...), TS: time.Now()})
}
