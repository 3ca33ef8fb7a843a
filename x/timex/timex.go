package timex

import "time"

// CharTime returns the duration of one character at baud with the given
// frame length in bits (start + data + stop). baud==0 is coerced to 1.
func CharTime(baud uint32, frameBits uint32) time.Duration {
	if baud == 0 {
		baud = 1
	}
	if frameBits == 0 {
		frameBits = 10
	}
	return time.Duration(uint64(frameBits) * uint64(time.Second) / uint64(baud))
}

func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}
