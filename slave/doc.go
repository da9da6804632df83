// Package slave implements an interrupt-driven slave-mode I²C
// transaction engine.
//
// It lets a device acting as an I²C bus slave respond to address
// matches, master-initiated reads and writes, and stop conditions while
// exchanging a byte buffer with the master, without blocking the main
// program. The engine is platform-agnostic and drives the peripheral
// only through the [softi2c/slave/hal.Registers] interface.
//
// # Architecture
//
// Two cooperating pieces per peripheral instance:
//
//   - [Module] holds the transfer context: buffer cursor, remaining and
//     total lengths, status, direction, and the NACK-on-address policy,
//     plus the callback tables
//   - [Module.Interrupt] is the interrupt state machine, invoked once
//     per hardware event (address match, data ready, stop condition)
//
// A bounded registry maps hardware instance index to Module for O(1)
// dispatch from a shared vector ([Bind], [Interrupt]).
//
// # Transaction Flow
//
// The application registers and enables callbacks, then arms a packet
// job with [Module.ReadPacketJob] or [Module.WritePacketJob]. Arming
// only prepares a buffer: the actual direction is decided at
// address-match time from the hardware direction bit. From then on the
// state machine consumes bus events, moving exactly one byte per
// data-ready event, until a stop condition (or repeated start)
// finalizes the transaction and fires the matching completion callback.
//
// The completion naming is from the master's perspective of the
// application's job: CallbackReadComplete fires when a master write
// (application read) finished, CallbackWriteComplete when a master read
// (application write) finished.
//
// # Interrupt Context
//
// Callbacks run synchronously inside the interrupt handler and must be
// short and non-blocking. A request callback that arms a new job is the
// supported mechanism for supplying a buffer before the acknowledge
// decision is committed; re-arming while busy is rejected with
// [softi2c/pkg.ErrBusy], never queued.
//
// No locks guard the transfer context. The model assumes one interrupt
// context per instance that runs to completion; the bufferRemaining==0
// busy check is the sole guard between main-context arming and the
// handler.
//
// # Errors
//
// Transfer faults are terminal for the current transaction and never
// fatal to the driver: the module returns to idle and accepts the next
// job. Bus-level faults surface as [softi2c/pkg.StatusErrIO] via
// CallbackErrorLastTransfer; a master overrunning the armed buffer
// surfaces as [softi2c/pkg.StatusErrOverflow] via CallbackError.
package slave
