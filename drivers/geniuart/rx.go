package geniuart

import (
	"geniuart/errcode"
	"geniuart/x/mathx"
)

// RxCacheSize is the receive cache capacity in bytes.
const RxCacheSize = 128

const rxCacheWords = RxCacheSize / 4

// rxCache holds bytes drained from the RX FIFO. avail counts unread bytes
// starting at buf[rd].
type rxCache struct {
	buf   [RxCacheSize]byte
	rd    int
	avail int
}

func (c *rxCache) pop() (byte, bool) {
	if c.avail == 0 {
		return 0, false
	}
	b := c.buf[c.rd]
	c.rd++
	c.avail--
	return b, true
}

// rxLevel decodes RX_FIFO_STATUS into the valid byte count of the final word
// and the number of full words ahead of it. A final word with 1..3 valid
// bytes is counted separately from the full words; a value of 4 is left as
// reported.
func rxLevel(fifoStatus uint32) (partial, words uint32) {
	partial = (fifoStatus >> RxLastByteValidShift) & RxLastByteValidMask
	words = fifoStatus & RxFifoWordCountMask
	if partial != 0 && partial != 4 && words > 0 {
		words--
	}
	return partial, words
}

// unpackLE writes the low n bytes of w into dst, least significant first.
func unpackLE(dst []byte, w uint32, n int) {
	for i := 0; i < n; i++ {
		dst[i] = byte(w >> (8 * i))
	}
}

// fill acknowledges the secondary IRQ status and drains the RX FIFO into the
// cache. It returns the number of bytes now cached.
func (d *Device) fill() int {
	irq := d.read(BlockData, RegSIrqStatus)
	d.write(BlockData, RegSIrqClear, irq)

	partial, words := rxLevel(d.read(BlockData, RegRxFifoStatus))
	if partial == 0 && words == 0 && irq&IrqRxFifoWatermark != 0 {
		// Status may lag the watermark interrupt; trust the threshold.
		words = d.read(BlockData, RegRxWatermark)
		d.dbgWatermarkFallback()
	}

	// Never drain past the cache; what does not fit stays in the FIFO.
	// Clamp the word count first so the byte arithmetic cannot wrap.
	words = mathx.Min(words, rxCacheWords)
	if words*4+partial > RxCacheSize {
		partial = 0
	}

	c := &d.rx
	c.avail = int(words*4 + partial)
	var i uint32
	for ; i < words; i++ {
		w := d.read(BlockData, FifoWord(RegRxFifo, i))
		unpackLE(c.buf[i*4:], w, 4)
	}
	if partial > 0 {
		w := d.read(BlockData, FifoWord(RegRxFifo, i))
		unpackLE(c.buf[i*4:], w, int(partial))
	}
	c.rd = 0
	d.dbgFill(c.avail)
	return c.avail
}

// GetByte returns the next received byte. Cached bytes are returned without
// touching hardware; an empty cache triggers exactly one FIFO drain.
// It fails with errcode.NoData when nothing was received.
func (d *Device) GetByte() (byte, error) {
	if !d.ready() {
		return 0, notReady("get_byte")
	}
	if b, ok := d.rx.pop(); ok {
		d.dbgCacheHit()
		return b, nil
	}
	if d.fill() == 0 {
		return 0, errcode.NoData
	}
	b, _ := d.rx.pop()
	return b, nil
}

// RxReady reports whether GetByte would return data. It only reads status
// registers and leaves the cache and interrupt state untouched.
func (d *Device) RxReady() bool {
	if !d.ready() {
		return false
	}
	if d.rx.avail > 0 {
		return true
	}
	partial, words := rxLevel(d.read(BlockData, RegRxFifoStatus))
	if partial != 0 || words != 0 {
		return true
	}
	if d.read(BlockData, RegSIrqStatus)&IrqRxFifoWatermark != 0 {
		return d.read(BlockData, RegRxWatermark) != 0
	}
	return false
}
