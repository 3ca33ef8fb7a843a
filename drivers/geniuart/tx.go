package geniuart

// PutByte transmits b as a one-byte transfer.
//
// With busyWait the call waits for the primary command engine to go idle;
// without it a busy engine fails immediately with errcode.NotReady and
// nothing is written. Success means the command and FIFO write were issued;
// acceptance is not read back.
func (d *Device) PutByte(b byte, busyWait bool) error {
	if !d.ready() {
		return notReady("put_byte")
	}
	if busyWait {
		if !d.waitIdle(StatusMCmdActive) {
			d.dbgTxBusy()
			return notReady("put_byte")
		}
	} else if d.read(BlockConfig, RegStatus)&StatusMCmdActive != 0 {
		d.dbgTxBusy()
		return notReady("put_byte")
	}

	d.write(BlockImage, RegTxTransLen, 1)
	d.write(BlockData, RegMCmd0, OpUARTStartTx<<OpcodeShift)
	d.write(BlockData, FifoWord(RegTxFifo, 0), uint32(b))
	d.dbgTx()
	return nil
}
