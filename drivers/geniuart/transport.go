package geniuart

import "geniuart/services/kdtransport"

// Name is the static name the driver table is registered under.
const Name = "qcom-geni-uart"

func init() { kdtransport.Register(Name, Transport()) }

// Transport returns the driver's entry table. Each entry resolves the port's
// session through p.Private, creating a default one on first use.
func Transport() kdtransport.Table {
	return kdtransport.Table{
		Initialize: func(p *kdtransport.Port, memoryMapped bool, accessSize, bitWidth uint8) bool {
			return session(p).Initialize(memoryMapped, accessSize, bitWidth) == nil
		},
		SetBaud: func(p *kdtransport.Port, rate uint32) bool {
			return session(p).SetBaud(rate) == nil
		},
		GetByte: func(p *kdtransport.Port) (byte, kdtransport.Status) {
			b, err := session(p).GetByte()
			return b, kdtransport.StatusOf(err)
		},
		PutByte: func(p *kdtransport.Port, b byte, busyWait bool) kdtransport.Status {
			return kdtransport.StatusOf(session(p).PutByte(b, busyWait))
		},
		RxReady: func(p *kdtransport.Port) bool {
			return session(p).RxReady()
		},
	}
}
