package slave

import (
	"softi2c/pkg"
	"softi2c/slave/hal"
)

// Direction is the transfer direction of the open transaction, named from
// the master's perspective: Write means the master writes to the slave
// (slave receives), Read means the master reads from the slave (slave
// transmits).
type Direction uint8

// Transfer directions.
const (
	DirectionWrite Direction = iota // Master to slave
	DirectionRead                   // Slave to master
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirectionWrite:
		return "write"
	case DirectionRead:
		return "read"
	default:
		return "unknown"
	}
}

// Module is the software state of one slave-mode I²C peripheral: the
// transfer context of the in-progress transaction plus the callback
// tables. One Module exists per physical peripheral and lives for the
// process.
//
// The interrupt handler and the main-context entry points both touch the
// transfer context without locks. The model assumes a single interrupt
// context per peripheral that runs to completion, and that the
// application only arms jobs when it can tolerate losing a race against
// a simultaneous bus event; the bufferRemaining==0 busy check is the
// sole guard.
type Module struct {
	regs hal.Registers

	// Transfer context. buffer is owned by the core while a job is in
	// flight and returned to the application on completion. The cursor
	// is bufferLength-bufferRemaining; bufferRemaining!=0 means busy.
	buffer          []byte
	bufferLength    int
	bufferRemaining int

	// Bytes moved by the last finalized transaction.
	transferred int

	status    pkg.Status
	direction Direction

	// When set, every address match is NACKed regardless of buffer state.
	nackOnAddress bool

	callbacks  [numCallbacks]Func
	registered Mask
	enabled    Mask
}

// NewModule creates a slave module driving the given peripheral registers.
func NewModule(regs hal.Registers) *Module {
	return &Module{regs: regs}
}

// Registers returns the hardware register interface the module drives.
func (m *Module) Registers() hal.Registers {
	return m.regs
}

// Status returns the module transfer status.
func (m *Module) Status() pkg.Status {
	return m.status
}

// Direction returns the direction of the open transaction. The value is
// meaningful only while a transaction is open on the bus or until the
// next address match.
func (m *Module) Direction() Direction {
	return m.direction
}

// Busy reports whether a packet job is currently in flight.
func (m *Module) Busy() bool {
	return m.bufferRemaining > 0
}

// LastTransfer returns the number of bytes moved by the most recently
// finalized transaction. Completion callbacks use it to recover the
// transfer length, since the counters are cleared before they fire.
func (m *Module) LastTransfer() int {
	return m.transferred
}

// EnableNackOnAddress makes the module NACK every address match,
// discarding incoming transactions without disabling the peripheral.
// Idempotent.
func (m *Module) EnableNackOnAddress() {
	m.nackOnAddress = true
}

// DisableNackOnAddress restores buffer-based acknowledge behavior on
// address match. Idempotent.
func (m *Module) DisableNackOnAddress() {
	m.nackOnAddress = false
}

// resetCounters finalizes the transfer context, capturing the moved byte
// count for LastTransfer before clearing the counters.
func (m *Module) resetCounters() {
	if m.bufferLength != 0 {
		m.transferred = m.bufferLength - m.bufferRemaining
	}
	m.bufferLength = 0
	m.bufferRemaining = 0
}
