// Package hal defines the hardware register interface for slave-capable
// I²C peripherals.
//
// The HAL is the boundary between the slave core and the silicon: the
// core implements all transaction logic and drives the peripheral only
// through the [Registers] interface. Platform vendors implement the
// interface over their memory-mapped register file; a memory-backed
// implementation for tests and host-side simulation is available in
// [softi2c/slave/hal/sim].
//
// # Design Principles
//
// The HAL is designed to be:
//
//   - Minimal: Only the registers the slave core actually touches
//   - Generic: No platform-specific assumptions beyond the register model
//   - Non-blocking: Every method is callable from interrupt context
//
// # Register Model
//
// The interface models a peripheral with:
//
//   - A one-byte data register ([Registers.Data], [Registers.SetData])
//   - An interrupt flag register with address-match, data-ready, and
//     stop bits, plus an enable-set/enable-clear register pair
//   - A status register with direction, bus-error, collision, low-timeout,
//     and NACK-received bits
//   - A control register accepting an acknowledge action latch and a
//     2-bit command field
//
// # Acknowledge Commit Sequence
//
// The acknowledge action is a latch, not an immediate bus operation: the
// peripheral drives it onto the bus when a command is issued (address
// match) or a byte transfer completes (data). The slave core relies on
// the exact latch-then-commit sequence; implementations must not reorder
// or coalesce these writes.
package hal
