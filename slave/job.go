package slave

import (
	"softi2c/pkg"
	"softi2c/slave/hal"
)

// jobInterrupts are the events a packet job listens for.
const jobInterrupts = hal.IntAddressMatch | hal.IntDataReady | hal.IntStop

// arm captures buf into the transfer context and enables the bus events
// for it. Arming only prepares a buffer; the actual transfer direction
// is decided at address-match time from the hardware direction bit, not
// from which arming call was made.
func (m *Module) arm(buf []byte) error {
	if m.bufferRemaining > 0 {
		return pkg.ErrBusy
	}

	m.buffer = buf
	m.bufferRemaining = len(buf)
	m.bufferLength = len(buf)
	m.status = pkg.StatusBusy

	m.regs.EnableInterrupts(jobInterrupts)

	pkg.LogDebug(pkg.ComponentSlave, "packet job armed", "len", len(buf))
	return nil
}

// ReadPacketJob arms buf to receive a packet from the master. The
// transfer begins when the master addresses the slave for a write; until
// then the module is idle on the bus. A CallbackWriteRequest callback is
// the natural place to call this.
//
// Returns nil on success or [pkg.ErrBusy] if a job is already in flight;
// rejection leaves the in-flight job untouched. The module exclusively
// owns buf until the transaction finalizes.
func (m *Module) ReadPacketJob(buf []byte) error {
	return m.arm(buf)
}

// WritePacketJob arms buf to be transmitted to the master. The transfer
// begins when the master addresses the slave for a read. A
// CallbackReadRequest callback is the natural place to call this.
//
// Returns nil on success or [pkg.ErrBusy] if a job is already in flight;
// rejection leaves the in-flight job untouched. The module exclusively
// owns buf until the transaction finalizes.
func (m *Module) WritePacketJob(buf []byte) error {
	return m.arm(buf)
}
