package geniuart_test

import (
	"bytes"
	"testing"

	"geniuart/drivers/geniuart"
	"geniuart/drivers/geniuart/sesim"
	"geniuart/errcode"
	"geniuart/mmio"
	"geniuart/services/kdtransport"
)

func bringUp(t *testing.T, cfg sesim.Config) (*sesim.SE, *geniuart.Device) {
	t.Helper()
	se := sesim.New(cfg)
	d := geniuart.New(se.Port(115200), geniuart.Config{})
	if err := d.Initialize(true, 4, 32); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !se.Receiving() {
		t.Fatalf("secondary sequencer not started")
	}
	se.ResetLog()
	return se, d
}

func drain(t *testing.T, d *geniuart.Device) []byte {
	t.Helper()
	var out []byte
	for {
		b, err := d.GetByte()
		if errcode.Of(err) == errcode.NoData {
			return out
		}
		if err != nil {
			t.Fatalf("GetByte: %v", err)
		}
		out = append(out, b)
	}
}

func TestReceiveRoundTripWordsAndPartial(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for k := 0; k <= 3; k++ {
			se, d := bringUp(t, sesim.Config{RxFifoDepth: 16})
			in := make([]byte, 4*n+k)
			for i := range in {
				in[i] = byte(0x30 + i)
			}
			se.Feed(in)
			got := drain(t, d)
			if !bytes.Equal(got, in) {
				t.Errorf("n=%d k=%d: got % x want % x", n, k, got, in)
			}
		}
	}
}

func countFills(log []mmio.Access, clearAddr uintptr) int {
	n := 0
	for _, a := range log {
		if a.Op == mmio.OpWrite && a.Addr == clearAddr {
			n++
		}
	}
	return n
}

func TestCacheEmptyTriggersSingleFill(t *testing.T) {
	se, d := bringUp(t, sesim.Config{})
	clearAddr := se.Addr(geniuart.BlockData, geniuart.RegSIrqClear)

	se.Feed([]byte("hello"))
	for i := 0; i < 5; i++ {
		if _, err := d.GetByte(); err != nil {
			t.Fatalf("GetByte %d: %v", i, err)
		}
	}
	if got := countFills(se.Log(), clearAddr); got != 1 {
		t.Fatalf("%d fills for five cached bytes, want 1", got)
	}

	se.ResetLog()
	se.Feed([]byte("!"))
	b, err := d.GetByte()
	if err != nil || b != '!' {
		t.Fatalf("GetByte=%q,%v", b, err)
	}
	log := se.Log()
	if got := countFills(log, clearAddr); got != 1 {
		t.Fatalf("%d fills after cache emptied, want 1", got)
	}
	want := []uintptr{
		se.Addr(geniuart.BlockData, geniuart.RegSIrqStatus),
		clearAddr,
		se.Addr(geniuart.BlockData, geniuart.RegRxFifoStatus),
		se.Addr(geniuart.BlockData, geniuart.RegRxFifo),
	}
	if len(log) != len(want) {
		t.Fatalf("fill accesses=%v", log)
	}
	for i := range want {
		if log[i].Addr != want[i] {
			t.Errorf("access %d at %#x, want %#x", i, log[i].Addr, want[i])
		}
	}
}

func TestRxReadyDoesNotConsume(t *testing.T) {
	se, d := bringUp(t, sesim.Config{})
	if d.RxReady() {
		t.Fatalf("RxReady on idle line")
	}
	se.Feed([]byte{0x7E})
	for i := 0; i < 3; i++ {
		if !d.RxReady() {
			t.Fatalf("RxReady false with data queued")
		}
	}
	if se.Pending() != 1 || d.Buffered() != 0 {
		t.Fatalf("RxReady consumed data: pending=%d cached=%d", se.Pending(), d.Buffered())
	}
	for _, a := range se.Log() {
		if a.Op == mmio.OpWrite {
			t.Fatalf("RxReady wrote %#x", a.Addr)
		}
	}
}

func TestWatermarkRaceRecovery(t *testing.T) {
	se, d := bringUp(t, sesim.Config{RxFifoDepth: 12}) // RX watermark = 4 words
	in := []byte("0123456789abcdef")
	se.SetStatusLag(true)
	se.Feed(in)
	if !d.RxReady() {
		t.Fatalf("RxReady false with watermark raised")
	}
	got := drain(t, d)
	if !bytes.Equal(got, in) {
		t.Fatalf("got %q want %q", got, in)
	}
}

func TestLargeBurstSpansFills(t *testing.T) {
	se, d := bringUp(t, sesim.Config{RxFifoDepth: 64})
	in := bytes.Repeat([]byte("0123456789"), 20)
	se.Feed(in)
	got := drain(t, d)
	if !bytes.Equal(got, in) {
		t.Fatalf("got %d bytes, want %d", len(got), len(in))
	}
}

func TestTransportTableLoopback(t *testing.T) {
	tbl, ok := kdtransport.Lookup(geniuart.Name)
	if !ok {
		t.Fatalf("%s not registered", geniuart.Name)
	}
	se := sesim.New(sesim.Config{Loopback: true})
	p := se.Port(57600)

	if tbl.Initialize(p, false, 4, 32) {
		t.Fatalf("Initialize accepted port I/O")
	}
	if len(se.Log()) != 0 {
		t.Fatalf("port I/O init touched hardware")
	}
	if !tbl.Initialize(p, true, 4, 32) {
		t.Fatalf("Initialize failed")
	}
	if got := se.Reg(geniuart.BlockConfig, geniuart.RegSerMClkCfg); got != 0x4<<4|1 {
		t.Fatalf("M clk cfg=%#x", got)
	}
	if _, st := tbl.GetByte(p); st != kdtransport.NoData {
		t.Fatalf("GetByte on idle line status=%v", st)
	}
	for _, b := range []byte("kd") {
		if st := tbl.PutByte(p, b, true); st != kdtransport.Success {
			t.Fatalf("PutByte status=%v", st)
		}
	}
	if got := se.Transmitted(); string(got) != "kd" {
		t.Fatalf("transmitted %q", got)
	}
	if !tbl.RxReady(p) {
		t.Fatalf("loopback data not ready")
	}
	var got []byte
	for i := 0; i < 2; i++ {
		b, st := tbl.GetByte(p)
		if st != kdtransport.Success {
			t.Fatalf("GetByte status=%v", st)
		}
		got = append(got, b)
	}
	if string(got) != "kd" {
		t.Fatalf("received %q", got)
	}

	se.SetBusy(-1)
	if st := tbl.PutByte(p, 'x', false); st != kdtransport.NotReady {
		t.Fatalf("PutByte on busy engine status=%v", st)
	}
	if !tbl.SetBaud(p, 4800) || p.BaudRate != 4800 {
		t.Fatalf("SetBaud(4800) baud=%d", p.BaudRate)
	}
	if tbl.SetBaud(nil, 9600) {
		t.Fatalf("SetBaud on nil port succeeded")
	}
	if _, st := tbl.GetByte(nil); st != kdtransport.NotReady {
		t.Fatalf("GetByte on nil port status=%v", st)
	}
}

func TestSessionsArePerPort(t *testing.T) {
	a, da := bringUp(t, sesim.Config{})
	b, db := bringUp(t, sesim.Config{Base: 0x00A0_0000})
	a.Feed([]byte("AAAA"))
	b.Feed([]byte("BB"))
	if x, _ := da.GetByte(); x != 'A' {
		t.Fatalf("port a got %q", x)
	}
	if y, _ := db.GetByte(); y != 'B' {
		t.Fatalf("port b got %q", y)
	}
	if da.Buffered() != 3 || db.Buffered() != 1 {
		t.Fatalf("caches shared: a=%d b=%d", da.Buffered(), db.Buffered())
	}
}
