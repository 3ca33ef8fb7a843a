package bytering

import "testing"

func TestOrderAcrossWrap(t *testing.T) {
	r := New(8)
	const N = 1000
	next, want := 0, 0
	buf := make([]byte, 3)
	for want < N {
		for next < N && r.Put(byte(next)) {
			next++
		}
		n := r.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i] != byte(want) {
				t.Fatalf("byte %d: got %d", want, buf[i])
			}
			want++
		}
	}
	if r.Used() != 0 {
		t.Fatalf("used=%d after drain", r.Used())
	}
}

func TestFullAndEdges(t *testing.T) {
	r := New(4)
	if n := r.Write([]byte("abcdef")); n != 4 {
		t.Fatalf("wrote %d, want 4", n)
	}
	select {
	case <-r.Readable():
	default:
		t.Fatalf("no readable edge")
	}
	if r.Put('x') || r.Space() != 0 {
		t.Fatalf("put into full ring")
	}
	if b, ok := r.Get(); !ok || b != 'a' {
		t.Fatalf("Get=%q,%v", b, ok)
	}
	select {
	case <-r.Writable():
	default:
		t.Fatalf("no writable edge")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(6)
}
