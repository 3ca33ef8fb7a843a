//go:build geniuartdebug

package geniuart

// Stats holds counters since the last reset.
type Stats struct {
	Inits uint32 // completed Initialize calls

	// Receive
	Fills              uint32 // FIFO drains
	EmptyFills         uint32 // drains that found nothing
	FillBytes          uint32 // total bytes drained
	MaxFill            uint32 // largest single drain
	WatermarkFallbacks uint32 // drains sized from the RX watermark register
	CacheHits          uint32 // bytes served without touching hardware

	// Transmit
	TxBytes uint32 // bytes issued
	TxBusy  uint32 // PutByte rejections on a busy engine
}

type debugState struct {
	stats Stats
}

// DebugStats returns a snapshot of the counters.
func (d *Device) DebugStats() Stats { return d.dbg.stats }

// DebugReset zeroes the counters.
func (d *Device) DebugReset() { d.dbg.stats = Stats{} }

func (d *Device) dbgInit() { d.dbg.stats.Inits++ }

func (d *Device) dbgFill(n int) {
	s := &d.dbg.stats
	s.Fills++
	if n == 0 {
		s.EmptyFills++
	}
	s.FillBytes += uint32(n)
	if uint32(n) > s.MaxFill {
		s.MaxFill = uint32(n)
	}
}

func (d *Device) dbgWatermarkFallback() { d.dbg.stats.WatermarkFallbacks++ }
func (d *Device) dbgCacheHit()          { d.dbg.stats.CacheHits++ }
func (d *Device) dbgTx()                { d.dbg.stats.TxBytes++ }
func (d *Device) dbgTxBusy()            { d.dbg.stats.TxBusy++ }
