package kdio

import (
	"bytes"
	"context"
	"testing"
	"time"

	"geniuart/drivers/geniuart"
	"geniuart/drivers/geniuart/sesim"
	"geniuart/errcode"
	"geniuart/services/kdtransport"
)

func openSim(t *testing.T, cfg sesim.Config) (*sesim.SE, *Stream) {
	t.Helper()
	se := sesim.New(cfg)
	s, err := Open(geniuart.Name, se.Port(115200), Config{RxSize: 64, Poll: time.Millisecond})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return se, s
}

func recvN(t *testing.T, s *Stream, n int, d time.Duration) []byte {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	var out []byte
	buf := make([]byte, 16)
	for len(out) < n {
		k, err := s.RecvSomeContext(ctx, buf)
		if err != nil {
			t.Fatalf("after %d bytes: %v", len(out), err)
		}
		out = append(out, buf[:k]...)
	}
	return out
}

func TestStreamPumpDeliversInOrder(t *testing.T) {
	se, s := openSim(t, sesim.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// More than the ring holds, so the pump has to wait for the reader.
	in := bytes.Repeat([]byte("geni-uart "), 30)
	se.Feed(in)
	got := recvN(t, s, len(in), 2*time.Second)
	if !bytes.Equal(got, in) {
		t.Fatalf("got %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestStreamWrite(t *testing.T) {
	se, s := openSim(t, sesim.Config{})
	n, err := s.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write=%d,%v", n, err)
	}
	if got := se.Transmitted(); string(got) != "hello" {
		t.Fatalf("transmitted %q", got)
	}
	if _, err := s.ReadByte(); errcode.Of(err) != errcode.NoData {
		t.Fatalf("ReadByte on empty ring err=%v", err)
	}
}

func TestStreamWriteStopsOnFailure(t *testing.T) {
	sent := 0
	tbl := kdtransport.Table{
		PutByte: func(_ *kdtransport.Port, _ byte, _ bool) kdtransport.Status {
			if sent == 2 {
				return kdtransport.NotReady
			}
			sent++
			return kdtransport.Success
		},
	}
	s := New(tbl, &kdtransport.Port{BaudRate: 9600}, Config{})
	n, err := s.Write([]byte("abcd"))
	if n != 2 || errcode.Of(err) != errcode.NotReady {
		t.Fatalf("Write=%d,%v", n, err)
	}
}

func TestOpenUnknownTransport(t *testing.T) {
	_, err := Open("no-such-uart", &kdtransport.Port{}, Config{})
	if errcode.Of(err) != errcode.UnknownTransport {
		t.Fatalf("err=%v", err)
	}
}

func TestOpenFailsWithoutAddress(t *testing.T) {
	_, err := Open(geniuart.Name, &kdtransport.Port{}, Config{})
	if errcode.Of(err) != errcode.NotReady {
		t.Fatalf("err=%v", err)
	}
}

func recvEvent(ch <-chan Event, d time.Duration) (Event, bool) {
	select {
	case ev := <-ch:
		return ev, true
	case <-time.After(d):
		return Event{}, false
	}
}

func TestMonitorLines(t *testing.T) {
	se, s := openSim(t, sesim.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	m := NewMonitor(8)
	stop := m.Watch(ctx, MonitorCfg{Name: "kd0", Stream: s, Mode: ModeLines, MaxFrame: 32})
	defer stop()

	se.Feed([]byte("boot\r\nok\n"))
	for _, want := range []string{"boot", "ok"} {
		ev, ok := recvEvent(m.Events(), 2*time.Second)
		if !ok {
			t.Fatalf("no event for %q", want)
		}
		if ev.Dir != DirRX || ev.Name != "kd0" || string(ev.Data) != want {
			t.Fatalf("event=%+v want %q", ev, want)
		}
	}
}

func TestMonitorIdleFlushAndTX(t *testing.T) {
	se, s := openSim(t, sesim.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	m := NewMonitor(8)
	stop := m.Watch(ctx, MonitorCfg{Name: "kd0", Stream: s, Mode: ModeLines, IdleFlush: 20 * time.Millisecond})
	defer stop()

	se.Feed([]byte("kd>"))
	ev, ok := recvEvent(m.Events(), 2*time.Second)
	if !ok || string(ev.Data) != "kd>" {
		t.Fatalf("idle flush event=%+v ok=%v", ev, ok)
	}

	m.EmitTX("kd0", []byte("g"))
	ev, ok = recvEvent(m.Events(), time.Second)
	if !ok || ev.Dir != DirTX || string(ev.Data) != "g" {
		t.Fatalf("tx event=%+v ok=%v", ev, ok)
	}
}
