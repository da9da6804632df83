package slave

import (
	"softi2c/pkg"
	"softi2c/slave/hal"
)

// Callback identifies a slave event callback kind.
type Callback uint8

// Callback kinds.
//
// The completion names are from the master's perspective of its own
// action: CallbackReadComplete fires when the master finished writing a
// packet that the application read, and CallbackWriteComplete fires when
// the master finished reading a packet that the application wrote. This
// mirrors the ReadPacketJob/WritePacketJob naming, not the bus direction
// bit.
const (
	CallbackReadRequest       Callback = iota // Master wants to read; arm a write job
	CallbackWriteRequest                      // Master wants to write; arm a read job
	CallbackReadComplete                      // Packet read from master finished
	CallbackWriteComplete                     // Packet write to master finished
	CallbackError                             // Transfer aborted (buffer overflow)
	CallbackErrorLastTransfer                 // Bus fault latched from the last transfer

	numCallbacks
)

// String returns a human-readable callback kind name.
func (c Callback) String() string {
	switch c {
	case CallbackReadRequest:
		return "read request"
	case CallbackWriteRequest:
		return "write request"
	case CallbackReadComplete:
		return "read complete"
	case CallbackWriteComplete:
		return "write complete"
	case CallbackError:
		return "error"
	case CallbackErrorLastTransfer:
		return "error last transfer"
	default:
		return "unknown"
	}
}

// Func is a slave event callback. It is invoked synchronously from
// interrupt context and must be short and non-blocking. Arming a new
// packet job from within a request callback is the supported way to
// supply a buffer before the acknowledge decision is committed.
type Func func(m *Module)

// Mask is a fixed-size set of callback kinds.
type Mask uint8

// Has reports whether the set contains the given kind.
func (k Mask) Has(c Callback) bool {
	return k&(1<<c) != 0
}

// with returns the set with the given kind added.
func (k Mask) with(c Callback) Mask {
	return k | 1<<c
}

// without returns the set with the given kind removed.
func (k Mask) without(c Callback) Mask {
	return k &^ (1 << c)
}

// RegisterCallback installs fn for the given callback kind and marks it
// registered. Registration alone does not make the callback fire: the
// kind must also be enabled with EnableCallback. The effective set used
// by the interrupt handler is the intersection of the registered and
// enabled sets, recomputed on every interrupt entry.
func (m *Module) RegisterCallback(c Callback, fn Func) error {
	if c >= numCallbacks || fn == nil {
		return pkg.ErrInvalidCallback
	}
	m.callbacks[c] = fn
	m.registered = m.registered.with(c)
	return nil
}

// UnregisterCallback removes the callback for the given kind, clearing
// both the function slot and its registered bit.
func (m *Module) UnregisterCallback(c Callback) error {
	if c >= numCallbacks {
		return pkg.ErrInvalidCallback
	}
	m.callbacks[c] = nil
	m.registered = m.registered.without(c)
	return nil
}

// EnableCallback marks the given callback kind eligible to fire. While a
// request callback is enabled the address-match interrupt is kept
// enabled, so the slave can be addressed even with no job armed.
func (m *Module) EnableCallback(c Callback) error {
	if c >= numCallbacks {
		return pkg.ErrInvalidCallback
	}
	m.enabled = m.enabled.with(c)

	if m.enabled.Has(CallbackReadRequest) || m.enabled.Has(CallbackWriteRequest) {
		m.regs.EnableInterrupts(hal.IntAddressMatch)
	}
	return nil
}

// DisableCallback clears the enabled bit for the given callback kind.
// When neither request callback remains enabled and no job is in flight,
// address matching is pointless and its interrupt is disabled.
func (m *Module) DisableCallback(c Callback) error {
	if c >= numCallbacks {
		return pkg.ErrInvalidCallback
	}
	m.enabled = m.enabled.without(c)

	if !m.enabled.Has(CallbackReadRequest) && !m.enabled.Has(CallbackWriteRequest) &&
		m.bufferRemaining == 0 {
		m.regs.DisableInterrupts(hal.IntAddressMatch)
	}
	return nil
}

// EnabledCallbacks returns the set of currently enabled callback kinds.
func (m *Module) EnabledCallbacks() Mask {
	return m.enabled
}

// RegisteredCallbacks returns the set of currently registered callback
// kinds.
func (m *Module) RegisteredCallbacks() Mask {
	return m.registered
}
