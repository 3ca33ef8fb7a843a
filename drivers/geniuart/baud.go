package geniuart

// baudDivisors maps supported bit rates to serial-clock divisors for the
// fixed 1.8432 MHz source clock.
var baudDivisors = [...]struct {
	rate uint32
	div  uint32
}{
	{7200, 0x20},
	{9600, 0x18},
	{14400, 0x10},
	{19200, 0xC},
	{28800, 0x8},
	{38400, 0x6},
	{57600, 0x4},
	{115200, 0x2},
}

// Divisor returns the clock divisor for rate. Unsupported rates use the
// 115200 divisor; supported reports whether rate was in the table.
func Divisor(rate uint32) (div uint32, supported bool) {
	for _, e := range baudDivisors {
		if e.rate == rate {
			return e.div, true
		}
	}
	return defaultDivisor, false
}

// SupportedRates lists the rates with an exact divisor, ascending.
func SupportedRates() []uint32 {
	out := make([]uint32, len(baudDivisors))
	for i, e := range baudDivisors {
		out[i] = e.rate
	}
	return out
}

// ClkCfg composes the value written to both serial clock config registers.
func ClkCfg(div uint32) uint32 { return div<<ClkDivShift | ClkSerEnable }

// SetBaud programs the M and S serial clocks for rate and records the
// requested rate in the port descriptor, even when the fallback divisor was
// used.
func (d *Device) SetBaud(rate uint32) error {
	if !d.ready() {
		return notReady("set_baud")
	}
	div, _ := Divisor(rate)
	v := ClkCfg(div)
	d.write(BlockConfig, RegSerMClkCfg, v)
	d.write(BlockConfig, RegSerSClkCfg, v)
	d.port.BaudRate = rate
	return nil
}
