package mmio

import "testing"

func TestRegFileRecordsAndHooks(t *testing.T) {
	f := NewRegFile()
	f.Write32(0x10, 7)
	if got := f.Read32(0x10); got != 7 {
		t.Fatalf("read back %d, want 7", got)
	}
	if got := f.Read32(0x20); got != 0 {
		t.Fatalf("unwritten register = %d, want 0", got)
	}

	f.OnRead(0x20, func(uintptr) (uint32, bool) { return 0xAA, true })
	if got := f.Read32(0x20); got != 0xAA {
		t.Fatalf("hooked read = %#x, want 0xAA", got)
	}

	var seen uint32
	f.OnWrite(0x30, func(_ uintptr, v uint32) { seen = v })
	f.Write32(0x30, 5)
	if seen != 5 {
		t.Fatalf("write hook saw %d, want 5", seen)
	}

	log := f.Log()
	if len(log) != 5 {
		t.Fatalf("log len=%d, want 5", len(log))
	}
	if w := f.Writes(); len(w) != 2 || w[0].Addr != 0x10 || w[1].Val != 5 {
		t.Fatalf("writes=%v", w)
	}
}

func TestRegFilePokePeekNotRecorded(t *testing.T) {
	f := NewRegFile()
	f.Poke(0x40, 9)
	if f.Peek(0x40) != 9 {
		t.Fatalf("peek mismatch")
	}
	if n := len(f.Log()); n != 0 {
		t.Fatalf("poke/peek recorded %d accesses", n)
	}
	f.Record(false)
	f.Write32(0x40, 1)
	f.Record(true)
	if n := len(f.Log()); n != 0 {
		t.Fatalf("recording off still logged %d", n)
	}
}
