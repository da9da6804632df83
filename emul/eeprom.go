package emul

import (
	"softi2c/pkg"
	"softi2c/slave"
)

// EEPROMConfig describes the emulated memory geometry.
type EEPROMConfig struct {
	// Size is the memory array size in bytes. One-byte word addressing
	// limits it to 256.
	Size int

	// PageSize is the write page size; a write burst wraps within the
	// page of its starting address, 24Cxx style.
	PageSize int
}

// Config24C02 matches a 256-byte EEPROM with 8-byte write pages.
var Config24C02 = EEPROMConfig{Size: 256, PageSize: 8}

// EEPROM emulates a 24Cxx-style serial EEPROM on top of a slave module.
//
// The master protocol is the usual one: a write transfer carries a word
// address byte followed by data to store; a read transfer returns bytes
// from the current word address, advancing (and rolling over) as the
// master keeps clocking. A write of just the address byte sets the word
// pointer for a subsequent random read.
//
// All bus work happens in the module's request and completion callbacks,
// so the emulation demonstrates in-handler job chaining: the request
// callbacks arm the next packet job before the acknowledge decision is
// committed.
type EEPROM struct {
	module *slave.Module

	mem     []byte
	pointer int

	// in receives one write transfer: word address plus one page.
	in [1 + 256]byte

	// out stages a full wrapped read window starting at the pointer.
	out [256]byte

	size     int
	pageSize int
}

// NewEEPROM wires an EEPROM emulation onto m, registering and enabling
// the four transfer callbacks. The module must not have a job in flight.
func NewEEPROM(m *slave.Module, cfg EEPROMConfig) (*EEPROM, error) {
	if cfg.Size <= 0 || cfg.Size > 256 {
		return nil, pkg.ErrInvalidParameter
	}
	if cfg.PageSize <= 0 || cfg.Size%cfg.PageSize != 0 {
		return nil, pkg.ErrInvalidParameter
	}
	if m.Busy() {
		return nil, pkg.ErrBusy
	}

	e := &EEPROM{
		module:   m,
		mem:      make([]byte, cfg.Size),
		size:     cfg.Size,
		pageSize: cfg.PageSize,
	}

	for _, reg := range []struct {
		kind slave.Callback
		fn   slave.Func
	}{
		{slave.CallbackWriteRequest, e.onWriteRequest},
		{slave.CallbackReadRequest, e.onReadRequest},
		{slave.CallbackReadComplete, e.onReadComplete},
		{slave.CallbackWriteComplete, e.onWriteComplete},
	} {
		if err := m.RegisterCallback(reg.kind, reg.fn); err != nil {
			return nil, err
		}
		if err := m.EnableCallback(reg.kind); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Pointer returns the current word address.
func (e *EEPROM) Pointer() int {
	return e.pointer
}

// Peek returns the memory byte at addr without touching the pointer.
func (e *EEPROM) Peek(addr int) byte {
	return e.mem[addr%e.size]
}

// Poke stores b at addr without touching the pointer. Intended for test
// and tool setup, not for bus traffic.
func (e *EEPROM) Poke(addr int, b byte) {
	e.mem[addr%e.size] = b
}

// onWriteRequest arms a receive buffer for the incoming word address and
// page data.
func (e *EEPROM) onWriteRequest(m *slave.Module) {
	if err := m.ReadPacketJob(e.in[:1+e.pageSize]); err != nil {
		pkg.LogWarn(pkg.ComponentEmul, "write request while busy")
	}
}

// onReadComplete applies a finished master write: first byte sets the
// word pointer, remaining bytes store with page wraparound.
func (e *EEPROM) onReadComplete(m *slave.Module) {
	n := m.LastTransfer()
	if n == 0 {
		return
	}

	pos := int(e.in[0]) % e.size
	for _, b := range e.in[1:n] {
		e.mem[pos] = b
		page := pos / e.pageSize * e.pageSize
		pos = page + (pos-page+1)%e.pageSize
	}
	e.pointer = pos

	pkg.LogDebug(pkg.ComponentEmul, "write applied",
		"addr", e.in[0], "len", n-1)
}

// onReadRequest stages the full wrapped window starting at the pointer
// and arms it for transmit; the master ends the read whenever it likes
// by NACKing.
func (e *EEPROM) onReadRequest(m *slave.Module) {
	for i := 0; i < e.size; i++ {
		e.out[i] = e.mem[(e.pointer+i)%e.size]
	}
	if err := m.WritePacketJob(e.out[:e.size]); err != nil {
		pkg.LogWarn(pkg.ComponentEmul, "read request while busy")
	}
}

// onWriteComplete advances the pointer past the bytes the master read.
func (e *EEPROM) onWriteComplete(m *slave.Module) {
	e.pointer = (e.pointer + m.LastTransfer()) % e.size
}
