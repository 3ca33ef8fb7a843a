package geniuart

import "geniuart/errcode"

// Initialize brings the engine from an unknown state to FIFO-mode UART
// operation at the port's configured baud rate.
//
// Only memory-mapped ports are supported; anything else fails with
// errcode.Unsupported before any register is touched. accessSize and bitWidth
// are accepted for the transport contract and ignored: the register width is
// fixed at 32 bits.
//
// No hardware acknowledgement is checked beyond the initial wait for the
// primary command engine to go idle.
func (d *Device) Initialize(memoryMapped bool, accessSize, bitWidth uint8) error {
	if !memoryMapped {
		return &errcode.E{C: errcode.Unsupported, Op: "initialize", Msg: "port I/O access"}
	}
	if !d.ready() {
		return notReady("initialize")
	}

	d.port.Flags = 0

	// No command may be in flight while the engine is reconfigured.
	if !d.waitIdle(StatusMCmdActive) {
		return &errcode.E{C: errcode.Timeout, Op: "initialize", Msg: "primary command engine busy"}
	}

	// Clocks and engine defaults.
	d.write(BlockConfig, RegDFSIfCfg, 0)
	d.setBits(BlockDMA, RegDMAGeneralCfg, dmaCGCAll)
	d.write(BlockConfig, RegCGCCtrl, cgcAll)
	d.write(BlockConfig, RegForceDefault, ForceDefault)
	d.write(BlockConfig, RegOutputCtrl, OutputCtrlAll)
	d.write(BlockImage, RegDMAModeEn, 0)

	// Interrupt enables. Nothing services a vector; the enables gate the
	// status bits the RX and TX paths poll.
	d.write(BlockDMA, RegIrqEn, SEIrqEnableAll)
	d.write(BlockDMA, RegGSIEventEn, 0)
	d.write(BlockData, RegMIrqEn, MIrqEnable)
	d.write(BlockData, RegSIrqEn, SIrqEnable)

	// FIFO watermarks. The RX thresholds assume a FIFO depth of at least 8
	// words, which holds for every SE UART this driver targets.
	d.txDepth = fifoDepth(d.read(BlockDMA, RegHWParam0))
	d.write(BlockData, RegTxWatermark, txWatermarkWords)
	d.rxDepth = fifoDepth(d.read(BlockDMA, RegHWParam1))
	d.write(BlockData, RegRxWatermark, d.rxDepth-rxWatermarkSlack)
	d.write(BlockData, RegRxRFRWatermark, d.rxDepth-rxRFRSlack)

	if err := d.SetBaud(d.port.BaudRate); err != nil {
		return err
	}

	// Frame: 8 data bits, no parity, minimum stop bits.
	d.write(BlockImage, RegTxWordLen, wordLenBits)
	d.write(BlockImage, RegRxWordLen, wordLenBits)
	d.write(BlockImage, RegTxParityCfg, 0)
	d.write(BlockImage, RegTxTransCfg, txTransCfgInit)
	d.write(BlockImage, RegRxParityCfg, 0)
	d.write(BlockImage, RegRxTransCfg, 0)
	d.write(BlockImage, RegTxStopBitLen, txStopBitLen)
	d.write(BlockImage, RegRxStaleCnt, rxStaleCount)

	// Secondary sequencer: continuous receive.
	d.write(BlockData, RegSCmd0, OpUARTStartRead<<OpcodeShift)
	d.dbgInit()
	return nil
}

func fifoDepth(hwParam uint32) uint32 {
	return (hwParam >> FifoDepthShift) & FifoDepthMask
}
