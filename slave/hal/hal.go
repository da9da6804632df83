package hal

// IntFlags is a bitset of peripheral interrupt flags. The same bits are
// used for the flag register and the enable-set/enable-clear pair.
type IntFlags uint8

// Interrupt flag bits.
const (
	IntAddressMatch IntFlags = 1 << iota // Master addressed this slave
	IntDataReady                         // One byte received or transmit register empty
	IntStop                              // Stop condition seen on the bus
)

// BusStatus is a snapshot of the peripheral status register.
type BusStatus uint8

// Status register bits.
const (
	StatusBusError      BusStatus = 1 << iota // Illegal bus condition
	StatusCollision                           // Transmit collision
	StatusLowTimeout                          // SCL low timeout
	StatusNackReceived                        // Master responded NACK to last transmitted byte
	StatusDirectionRead                       // Set: master read (slave transmits); clear: master write
)

// Error reports whether any bus fault bit is latched in the snapshot.
func (s BusStatus) Error() bool {
	return s&(StatusBusError|StatusCollision|StatusLowTimeout) != 0
}

// AckAction selects the acknowledge bit the peripheral will drive on the
// bus at the next commit point (address match command or received byte).
type AckAction uint8

// Acknowledge actions.
const (
	AckActionAck  AckAction = iota // Drive ACK
	AckActionNack                  // Drive NACK
)

// Command is the 2-bit command field of the peripheral control register.
// Writing a command executes it immediately.
type Command uint8

// Control register commands.
const (
	// CmdWaitStart releases the bus lines and waits for the next start
	// condition.
	CmdWaitStart Command = 0x2

	// CmdAckAddress completes an address match, driving the latched
	// acknowledge action onto the bus.
	CmdAckAddress Command = 0x3
)

// Registers is the hardware register interface of a slave-capable I²C
// peripheral. The slave core drives the peripheral exclusively through
// this interface; platform code implements it over memory-mapped
// registers (or, for tests and host-side simulation, over plain memory).
//
// All accesses are single-register width with no buffering. None of the
// methods may block: they are called from interrupt context.
type Registers interface {
	// Data returns the one-byte data register. Reading it consumes the
	// byte most recently received from the master.
	Data() byte

	// SetData loads the data register with the next byte to transmit.
	SetData(b byte)

	// IntFlags returns the current interrupt flag bits.
	IntFlags() IntFlags

	// ClearIntFlags acknowledges the given interrupt flag bits.
	ClearIntFlags(flags IntFlags)

	// EnableInterrupts sets the given bits in the interrupt enable set
	// register. Bits already enabled are unaffected.
	EnableInterrupts(flags IntFlags)

	// DisableInterrupts sets the given bits in the interrupt enable
	// clear register. Bits already disabled are unaffected.
	DisableInterrupts(flags IntFlags)

	// BusStatus returns a snapshot of the status register.
	BusStatus() BusStatus

	// SetAckAction latches the acknowledge action for the next commit
	// point. The latch persists until rewritten.
	SetAckAction(a AckAction)

	// IssueCommand writes the command field of the control register,
	// executing the command.
	IssueCommand(c Command)
}
