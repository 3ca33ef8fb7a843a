//go:build !geniuartdebug

package geniuart

type debugState struct{}

func (d *Device) dbgInit()              {}
func (d *Device) dbgFill(int)           {}
func (d *Device) dbgWatermarkFallback() {}
func (d *Device) dbgCacheHit()          {}
func (d *Device) dbgTx()                {}
func (d *Device) dbgTxBusy()            {}
