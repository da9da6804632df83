package slave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softi2c/pkg"
	"softi2c/slave/hal"
)

func TestRegisterCallback(t *testing.T) {
	m := NewModule(&recordRegs{})

	require.NoError(t, m.RegisterCallback(CallbackError, func(*Module) {}))
	assert.True(t, m.RegisteredCallbacks().Has(CallbackError))
	assert.False(t, m.RegisteredCallbacks().Has(CallbackReadComplete))

	require.NoError(t, m.UnregisterCallback(CallbackError))
	assert.False(t, m.RegisteredCallbacks().Has(CallbackError))
	assert.Nil(t, m.callbacks[CallbackError])
}

func TestRegisterCallbackInvalid(t *testing.T) {
	m := NewModule(&recordRegs{})

	assert.ErrorIs(t, m.RegisterCallback(Callback(42), func(*Module) {}), pkg.ErrInvalidCallback)
	assert.ErrorIs(t, m.RegisterCallback(CallbackError, nil), pkg.ErrInvalidCallback)
	assert.ErrorIs(t, m.UnregisterCallback(Callback(42)), pkg.ErrInvalidCallback)
	assert.ErrorIs(t, m.EnableCallback(Callback(42)), pkg.ErrInvalidCallback)
	assert.ErrorIs(t, m.DisableCallback(Callback(42)), pkg.ErrInvalidCallback)
}

func TestRegisteredButDisabledDoesNotFire(t *testing.T) {
	// The effective set is registered AND enabled, recomputed per
	// interrupt entry.
	regs := &recordRegs{ena: hal.IntAddressMatch}
	m := NewModule(regs)

	var fired int
	require.NoError(t, m.RegisterCallback(CallbackWriteRequest, func(*Module) { fired++ }))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	assert.Zero(t, fired)

	require.NoError(t, m.EnableCallback(CallbackWriteRequest))
	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	assert.Equal(t, 1, fired)
}

func TestEnabledButUnregisteredDoesNotFire(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.EnableCallback(CallbackWriteRequest))

	regs.flags = hal.IntAddressMatch
	assert.NotPanics(t, func() { m.Interrupt() })
}

func TestEnableRequestCallbackEnablesAddressMatch(t *testing.T) {
	// A slave with no armed job must still see address matches while a
	// request callback is enabled; that callback is its only chance to
	// arm a buffer.
	regs := &recordRegs{}
	m := NewModule(regs)

	require.NoError(t, m.EnableCallback(CallbackReadRequest))
	assert.Equal(t, hal.IntAddressMatch, regs.ena)

	require.NoError(t, m.DisableCallback(CallbackReadRequest))
	assert.Zero(t, regs.ena)
}

func TestDisableRequestCallbackKeepsAddressMatchWhileBusy(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.EnableCallback(CallbackWriteRequest))
	require.NoError(t, m.ReadPacketJob(make([]byte, 2)))

	require.NoError(t, m.DisableCallback(CallbackWriteRequest))
	assert.NotZero(t, regs.ena&hal.IntAddressMatch,
		"in-flight job still needs address matching")
}

func TestCallbackString(t *testing.T) {
	for c := CallbackReadRequest; c < numCallbacks; c++ {
		assert.NotEqual(t, "unknown", c.String())
	}
	assert.Equal(t, "unknown", Callback(42).String())
}
