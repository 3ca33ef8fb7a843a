// Package geniuart provides constants for register addresses and bitfields used
// by the GENI serial-engine UART.
//
// Every register is addressed as base + Block* + Reg*. Offsets are relative to
// their block.
package geniuart

const (
	// --- Sub-block offsets from the SE base ---
	BlockConfig = 0x000 // engine configuration, status, serial clocks
	BlockImage  = 0x200 // protocol (UART) parameters loaded by the SE image
	BlockData   = 0x600 // command, IRQ and FIFO registers
	BlockDMA    = 0xC00 // shared DMA engine and hardware parameters

	// --- BlockConfig ---
	RegForceDefault = 0x020 // W
	RegOutputCtrl   = 0x024 // R/W
	RegCGCCtrl      = 0x028 // R/W
	RegStatus       = 0x040 // R
	RegSerMClkCfg   = 0x048 // R/W
	RegSerSClkCfg   = 0x04C // R/W
	RegDFSIfCfg     = 0x080 // R/W

	// --- BlockImage ---
	RegDMAModeEn    = 0x058 // R/W
	RegTxTransCfg   = 0x05C // R/W
	RegTxWordLen    = 0x068 // R/W
	RegTxStopBitLen = 0x06C // R/W
	RegTxTransLen   = 0x070 // R/W
	RegRxTransCfg   = 0x080 // R/W
	RegRxWordLen    = 0x08C // R/W
	RegRxStaleCnt   = 0x094 // R/W
	RegTxParityCfg  = 0x0A4 // R/W
	RegRxParityCfg  = 0x0A8 // R/W

	// --- BlockData ---
	RegMCmd0          = 0x000 // W
	RegMIrqStatus     = 0x010 // R
	RegMIrqEn         = 0x014 // R/W
	RegMIrqClear      = 0x018 // W
	RegSCmd0          = 0x030 // W
	RegSIrqStatus     = 0x040 // R
	RegSIrqEn         = 0x044 // R/W
	RegSIrqClear      = 0x048 // W
	RegTxFifo         = 0x100 // W, word n at +4n
	RegRxFifo         = 0x180 // R, word n at +4n
	RegTxFifoStatus   = 0x200 // R
	RegRxFifoStatus   = 0x204 // R
	RegTxWatermark    = 0x20C // R/W
	RegRxWatermark    = 0x210 // R/W
	RegRxRFRWatermark = 0x214 // R/W

	// --- BlockDMA ---
	RegGSIEventEn    = 0x218 // R/W
	RegIrqEn         = 0x21C // R/W
	RegHWParam0      = 0x224 // R
	RegHWParam1      = 0x228 // R
	RegDMAGeneralCfg = 0x230 // R/W
)

// Addr composes an absolute register address.
func Addr(base uintptr, block, reg uintptr) uintptr { return base + block + reg }

// FifoWord returns the offset of FIFO word n relative to a FIFO base register.
func FifoWord(fifo uintptr, n uint32) uintptr { return fifo + uintptr(n)*4 }

// GENI_STATUS.
const (
	StatusMCmdActive uint32 = 1 << 0
	StatusSCmdActive uint32 = 1 << 12
)

// Serial clock config (M and S).
const (
	ClkSerEnable   uint32 = 1 << 0
	ClkDivShift    uint32 = 4
	ClkSourceHz    uint32 = 1_843_200
	defaultDivisor uint32 = 0x2
)

// DMA general config clock gating.
const (
	DMARxClkCGC     uint32 = 1 << 0
	DMATxClkCGC     uint32 = 1 << 1
	DMAAHBSlvCGC    uint32 = 1 << 2
	DMAAHBSecSlvCGC uint32 = 1 << 3

	dmaCGCAll = DMARxClkCGC | DMATxClkCGC | DMAAHBSlvCGC | DMAAHBSecSlvCGC
)

// Core clock gating control.
const (
	CGCCfgAHB   uint32 = 1 << 0
	CGCCfgAHBWr uint32 = 1 << 1
	CGCDataAHB  uint32 = 1 << 2
	CGCSerial   uint32 = 1 << 3
	CGCTx       uint32 = 1 << 4
	CGCRx       uint32 = 1 << 5
	CGCExt      uint32 = 1 << 6
	CGCProgRAM  uint32 = 1 << 7

	cgcAll = CGCCfgAHB | CGCCfgAHBWr | CGCDataAHB | CGCSerial | CGCTx | CGCRx | CGCExt | CGCProgRAM
)

// Misc engine control.
const (
	ForceDefault   uint32 = 1 << 0
	OutputCtrlAll  uint32 = 0x7F
	DFSIfEnable    uint32 = 1 << 0
	DMAModeEnable  uint32 = 1 << 0
	SEIrqEnableAll uint32 = 0xF // DMA RX, DMA TX, GENI M, GENI S
)

// M/S IRQ status and enable bits share a layout; FIFO bits differ by side.
const (
	IrqCmdDone    uint32 = 1 << 0
	IrqCmdOverrun uint32 = 1 << 1
	IrqIllegalCmd uint32 = 1 << 2
	IrqCmdFailure uint32 = 1 << 3
	IrqCmdCancel  uint32 = 1 << 4
	IrqCmdAbort   uint32 = 1 << 5

	IrqRxFifoRdErr     uint32 = 1 << 24
	IrqRxFifoWrErr     uint32 = 1 << 25
	IrqRxFifoWatermark uint32 = 1 << 26
	IrqRxFifoLast      uint32 = 1 << 27
	IrqTxFifoRdErr     uint32 = 1 << 28
	IrqTxFifoWrErr     uint32 = 1 << 29
	IrqTxFifoWatermark uint32 = 1 << 30
	IrqSecondary       uint32 = 1 << 31

	irqCmdAll = IrqCmdDone | IrqCmdOverrun | IrqIllegalCmd | IrqCmdFailure | IrqCmdCancel | IrqCmdAbort

	MIrqEnable = irqCmdAll | IrqTxFifoWatermark | IrqTxFifoRdErr | IrqTxFifoWrErr | IrqSecondary
	SIrqEnable = irqCmdAll | IrqRxFifoWatermark | IrqRxFifoLast | IrqRxFifoRdErr | IrqRxFifoWrErr
)

// HW_PARAM_0/1 FIFO depth field (words).
const (
	FifoDepthShift uint32 = 16
	FifoDepthMask  uint32 = 0x3F
)

// RX_FIFO_STATUS.
const (
	RxFifoWordCountMask  uint32 = 0x01FF_FFFF
	RxLastByteValidShift uint32 = 28
	RxLastByteValidMask  uint32 = 0x7
	RxFifoLast           uint32 = 1 << 31
)

// Command words.
const (
	OpcodeShift     uint32 = 27
	OpUARTStartTx   uint32 = 0x1
	OpUARTStartRead uint32 = 0x1
)

// Fixed frame and FIFO programming.
const (
	txWatermarkWords = 4
	rxWatermarkSlack = 8
	rxRFRSlack       = 4
	wordLenBits      = 8
	txStopBitLen     = 0
	rxStaleCount     = 22 * 10

	// TX_TRANS_CFG value written during bring-up. Bit 1 is the parity enable
	// even though TX parity itself is programmed off.
	txTransCfgInit = 0x2
)
