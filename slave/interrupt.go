package slave

import (
	"softi2c/pkg"
	"softi2c/slave/hal"
)

// Interrupt is the interrupt service routine for the module's
// peripheral. Platform code invokes it once per hardware event; the
// three event classes (address match, stop condition, data ready) are
// mutually exclusive per invocation, decided from a single interrupt
// flag snapshot.
//
// Callbacks fire synchronously from within this handler. No retries
// happen here: errors are terminal for the current transaction and the
// module returns to idle.
func (m *Module) Interrupt() {
	// Effective callback set, recomputed on every entry.
	mask := m.enabled & m.registered

	flags := m.regs.IntFlags()
	switch {
	case flags&hal.IntAddressMatch != 0:
		m.onAddressMatch(mask)
	case flags&hal.IntStop != 0:
		m.onStop(mask)
	case flags&hal.IntDataReady != 0:
		m.onDataReady(mask)
	}
}

// onAddressMatch handles a start (or repeated start) with a matching
// address, deciding the acknowledge response before the bus stalls.
func (m *Module) onAddressMatch(mask Mask) {
	regs := m.regs
	status := regs.BusStatus()

	// A partially consumed buffer at address match means the previous
	// transfer ended in a repeated start: finalize it now. The
	// completion callback names follow the packet-job naming, so a
	// finished master write completes the application's read.
	if m.bufferLength != m.bufferRemaining && m.direction == DirectionWrite {
		m.status = pkg.StatusOK
		m.resetCounters()

		if mask.Has(CallbackReadComplete) {
			m.callbacks[CallbackReadComplete](m)
		}
	} else if m.bufferLength != m.bufferRemaining && m.direction == DirectionRead {
		m.status = pkg.StatusOK
		m.resetCounters()

		if mask.Has(CallbackWriteComplete) {
			m.callbacks[CallbackWriteComplete](m)
		}
	}

	if status.Error() {
		// A bus fault was latched during the last transfer.
		m.status = pkg.StatusErrIO

		if mask.Has(CallbackErrorLastTransfer) {
			m.callbacks[CallbackErrorLastTransfer](m)
		}
	}

	// Latch the acknowledge decision. NACK policy wins over everything;
	// otherwise the request callback runs first so the application can
	// arm a buffer before the decision is read.
	if m.nackOnAddress {
		regs.SetAckAction(hal.AckActionNack)
	} else if status&hal.StatusDirectionRead != 0 {
		m.direction = DirectionRead

		if mask.Has(CallbackReadRequest) {
			m.callbacks[CallbackReadRequest](m)
		}

		if m.bufferLength == 0 {
			regs.SetAckAction(hal.AckActionNack)
		} else {
			regs.SetAckAction(hal.AckActionAck)
		}
	} else {
		m.direction = DirectionWrite

		if mask.Has(CallbackWriteRequest) {
			m.callbacks[CallbackWriteRequest](m)
		}

		if m.bufferLength == 0 {
			regs.SetAckAction(hal.AckActionNack)
		} else {
			regs.SetAckAction(hal.AckActionAck)
		}
	}

	// Commit the decision, then immediately re-arm ACK for the next
	// incoming byte. Silicon erratum workaround: this latch-commit-rearm
	// order is a contract and must not change, even on targets without
	// the erratum, or the bus sees spurious acknowledge bits.
	regs.IssueCommand(hal.CmdAckAddress)
	regs.SetAckAction(hal.AckActionAck)
}

// onStop finalizes the transaction on a bus stop condition.
func (m *Module) onStop(mask Mask) {
	regs := m.regs

	regs.ClearIntFlags(hal.IntStop)
	regs.DisableInterrupts(hal.IntStop | hal.IntDataReady)

	// With neither request callback enabled no job will ever be
	// started, so matching the address is pointless. The enabled set is
	// checked alone here: a registered-but-disabled callback still
	// keeps matching off.
	if !m.enabled.Has(CallbackReadRequest) && !m.enabled.Has(CallbackWriteRequest) {
		regs.DisableInterrupts(hal.IntAddressMatch)
	}

	// Error statuses set by the data handler survive the stop; anything
	// else finalizes clean.
	if m.status != pkg.StatusErrOverflow && m.status != pkg.StatusErrIO {
		m.status = pkg.StatusOK
		m.resetCounters()

		if mask.Has(CallbackReadComplete) && m.direction == DirectionWrite {
			m.callbacks[CallbackReadComplete](m)
		} else if mask.Has(CallbackWriteComplete) && m.direction == DirectionRead {
			m.callbacks[CallbackWriteComplete](m)
		}
	}
}

// onDataReady moves exactly one byte per event, or terminates the
// transfer when the buffer is exhausted or the master NACKed a
// transmitted byte.
func (m *Module) onDataReady(mask Mask) {
	regs := m.regs
	status := regs.BusStatus()

	if m.bufferRemaining == 0 ||
		(m.direction == DirectionRead &&
			m.bufferLength > m.bufferRemaining &&
			status&hal.StatusNackReceived != 0) {

		m.resetCounters()

		if m.direction == DirectionWrite {
			// Buffer full but the master keeps sending: the byte in
			// the data register would overflow. NACK and release.
			regs.SetAckAction(hal.AckActionNack)
			regs.IssueCommand(hal.CmdWaitStart)

			m.status = pkg.StatusErrOverflow

			if mask.Has(CallbackError) {
				m.callbacks[CallbackError](m)
			}
		} else {
			// Master NACKed or drained the buffer: clean end of the
			// slave-to-master transfer. Release the bus and stop
			// listening for data; address match stays live for the
			// next transaction.
			regs.SetAckAction(hal.AckActionNack)
			regs.IssueCommand(hal.CmdWaitStart)

			m.status = pkg.StatusOK

			regs.DisableInterrupts(hal.IntDataReady)
		}
		return
	}

	if m.bufferLength > 0 && m.bufferRemaining > 0 {
		cursor := m.bufferLength - m.bufferRemaining
		if m.direction == DirectionWrite {
			m.buffer[cursor] = regs.Data()
		} else {
			regs.SetData(m.buffer[cursor])
		}
		m.bufferRemaining--
	}
}
