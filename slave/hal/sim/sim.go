package sim

import (
	"softi2c/pkg"
	"softi2c/slave/hal"
)

// idleBusByte is what a master samples when nobody drives SDA.
const idleBusByte = 0xFF

// Peripheral is a memory-backed implementation of [hal.Registers] with a
// master-side view of the same bus. The slave core drives the register
// interface; tests and tools drive the master operations (Start,
// WriteByte, ReadByte, Stop) and observe acknowledge bits exactly as a
// bus master would.
//
// Interrupts dispatch synchronously on the caller's goroutine: a master
// operation that raises an enabled interrupt flag runs the attached
// handler to completion before returning, mirroring the run-to-completion
// interrupt model of the real peripheral. Peripheral is not safe for
// concurrent use.
type Peripheral struct {
	addr uint8 // 7-bit slave address matched in hardware

	// Register file.
	data     byte
	intFlags hal.IntFlags
	intEna   hal.IntFlags
	status   hal.BusStatus
	ackAct   hal.AckAction

	// Attached interrupt handler.
	isr func()

	// Bus-side bookkeeping.
	open       bool          // address phase acknowledged, transaction open
	released   bool          // slave issued CmdWaitStart, off the bus until next start
	cmdAck     bool          // acknowledge driven at the last CmdAckAddress
	dataLoaded bool          // handler loaded the data register this event
	injected   hal.BusStatus // fault bits latched for the next address match
}

// New creates a simulated peripheral answering to the given 7-bit
// address.
func New(addr uint8) *Peripheral {
	return &Peripheral{addr: addr}
}

// Attach connects the interrupt handler invoked when an enabled
// interrupt flag is raised.
func (p *Peripheral) Attach(isr func()) {
	p.isr = isr
}

// Addr returns the peripheral's 7-bit slave address.
func (p *Peripheral) Addr() uint8 {
	return p.addr
}

// Register interface (slave side).

// Data returns the data register.
func (p *Peripheral) Data() byte { return p.data }

// SetData loads the data register with the next byte to transmit.
func (p *Peripheral) SetData(b byte) {
	p.data = b
	p.dataLoaded = true
}

// IntFlags returns the interrupt flag register.
func (p *Peripheral) IntFlags() hal.IntFlags { return p.intFlags }

// ClearIntFlags acknowledges the given interrupt flags.
func (p *Peripheral) ClearIntFlags(flags hal.IntFlags) {
	p.intFlags &^= flags
}

// EnableInterrupts sets bits in the interrupt enable register.
func (p *Peripheral) EnableInterrupts(flags hal.IntFlags) {
	p.intEna |= flags
}

// DisableInterrupts clears bits in the interrupt enable register.
func (p *Peripheral) DisableInterrupts(flags hal.IntFlags) {
	p.intEna &^= flags
}

// EnabledInterrupts returns the interrupt enable register. Not part of
// [hal.Registers]; exposed for tests and tools.
func (p *Peripheral) EnabledInterrupts() hal.IntFlags { return p.intEna }

// BusStatus returns a snapshot of the status register.
func (p *Peripheral) BusStatus() hal.BusStatus { return p.status }

// SetAckAction latches the acknowledge action.
func (p *Peripheral) SetAckAction(a hal.AckAction) {
	p.ackAct = a
}

// IssueCommand executes a control register command.
func (p *Peripheral) IssueCommand(c hal.Command) {
	switch c {
	case hal.CmdAckAddress:
		// Drive the latched acknowledge action onto the bus and
		// complete the address phase.
		p.cmdAck = p.ackAct == hal.AckActionAck
		p.intFlags &^= hal.IntAddressMatch
	case hal.CmdWaitStart:
		// Release the bus lines until the next start condition.
		p.released = true
		p.intFlags &^= hal.IntDataReady
	}
}

// raise sets an interrupt flag and, if enabled, runs the attached
// handler. The flag is consumed when the bus event passes regardless of
// whether the handler served it.
func (p *Peripheral) raise(f hal.IntFlags) bool {
	p.intFlags |= f
	served := p.intEna&f != 0 && p.isr != nil
	if served {
		p.isr()
	}
	p.intFlags &^= f
	return served
}

// Master-side bus operations.

// Start issues a start (or repeated start) condition addressing addr,
// with read selecting a master-read transfer. It returns true if the
// slave acknowledged the address.
func (p *Peripheral) Start(addr uint8, read bool) bool {
	if addr != p.addr {
		return false
	}

	if read {
		p.status |= hal.StatusDirectionRead
	} else {
		p.status &^= hal.StatusDirectionRead
	}

	// Fault bits latch into the status register for this match.
	p.status |= p.injected
	p.injected = 0

	p.released = false
	p.cmdAck = false
	p.raise(hal.IntAddressMatch)

	p.status &^= hal.StatusBusError | hal.StatusCollision | hal.StatusLowTimeout

	p.open = p.cmdAck
	if !p.open {
		pkg.LogDebug(pkg.ComponentSim, "address nacked",
			"addr", addr, "read", read)
	}
	return p.cmdAck
}

// WriteByte transmits one byte from the master to the slave. It returns
// true if the slave acknowledged the byte.
func (p *Peripheral) WriteByte(b byte) bool {
	if !p.open || p.released {
		return false
	}

	p.data = b
	if !p.raise(hal.IntDataReady) {
		return false
	}
	// The acknowledge for a received byte is whatever action is latched
	// once the handler returns: the pre-armed ACK on continuation, or
	// the NACK latched before a release.
	return p.ackAct == hal.AckActionAck
}

// ReadByte clocks one byte from the slave to the master, answering with
// ACK when ack is true. The returned bool is false when the slave was
// not driving the bus (the byte is then the idle bus pattern).
func (p *Peripheral) ReadByte(ack bool) (byte, bool) {
	if !p.open || p.released {
		return idleBusByte, false
	}

	p.dataLoaded = false
	served := p.raise(hal.IntDataReady)
	if !served || !p.dataLoaded {
		return idleBusByte, false
	}
	b := p.data

	if !ack {
		// The slave learns about the NACK on its next data event and
		// releases the bus.
		p.status |= hal.StatusNackReceived
		p.raise(hal.IntDataReady)
		p.status &^= hal.StatusNackReceived
	}
	return b, true
}

// Stop issues a stop condition, ending the open transaction.
func (p *Peripheral) Stop() {
	p.raise(hal.IntStop)
	p.open = false
	p.released = false
}

// InjectFault latches the given fault bits (bus error, collision, low
// timeout) so they appear in the status register at the next address
// match, as a failing transfer would leave them.
func (p *Peripheral) InjectFault(faults hal.BusStatus) {
	p.injected |= faults & (hal.StatusBusError | hal.StatusCollision | hal.StatusLowTimeout)
}
