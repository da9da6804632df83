// Package sim provides a memory-backed [softi2c/slave/hal.Registers]
// implementation paired with a master-side view of the same simulated
// bus.
//
// It exists for testing the slave core and for host-side tools: a test
// plays the bus master (Start, WriteByte, ReadByte, Stop) while the
// slave core runs unmodified against the register interface, with
// interrupts dispatched synchronously on the caller's goroutine.
//
// # Example
//
//	p := sim.New(0x42)
//	m := slave.NewModule(p)
//	p.Attach(m.Interrupt)
//
//	buf := make([]byte, 4)
//	m.ReadPacketJob(buf)
//
//	p.Start(0x42, false) // master write, slave ACKs
//	p.WriteByte(0x01)
//	p.Stop()
//
// Fault injection via [Peripheral.InjectFault] latches bus-error bits
// for the next address match, reproducing the error-on-last-transfer
// reporting path.
package sim
