package slave

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softi2c/pkg"
	"softi2c/slave/hal"
)

// recordRegs implements hal.Registers and records every mutating access
// in order, so tests can assert the exact commit sequences the handler
// drives.
type recordRegs struct {
	data   byte
	flags  hal.IntFlags
	ena    hal.IntFlags
	status hal.BusStatus
	ack    hal.AckAction

	ops []string
}

func (r *recordRegs) Data() byte { return r.data }

func (r *recordRegs) SetData(b byte) {
	r.data = b
	r.ops = append(r.ops, fmt.Sprintf("data=%02x", b))
}

func (r *recordRegs) IntFlags() hal.IntFlags { return r.flags }

func (r *recordRegs) ClearIntFlags(f hal.IntFlags) {
	r.flags &^= f
	r.ops = append(r.ops, fmt.Sprintf("clear=%03b", f))
}

func (r *recordRegs) EnableInterrupts(f hal.IntFlags) {
	r.ena |= f
	r.ops = append(r.ops, fmt.Sprintf("enable=%03b", f))
}

func (r *recordRegs) DisableInterrupts(f hal.IntFlags) {
	r.ena &^= f
	r.ops = append(r.ops, fmt.Sprintf("disable=%03b", f))
}

func (r *recordRegs) BusStatus() hal.BusStatus { return r.status }

func (r *recordRegs) SetAckAction(a hal.AckAction) {
	r.ack = a
	if a == hal.AckActionAck {
		r.ops = append(r.ops, "ack")
	} else {
		r.ops = append(r.ops, "nack")
	}
}

func (r *recordRegs) IssueCommand(c hal.Command) {
	r.ops = append(r.ops, fmt.Sprintf("cmd=%x", byte(c)))
}

// tail returns the last n recorded operations.
func (r *recordRegs) tail(n int) []string {
	if len(r.ops) < n {
		return r.ops
	}
	return r.ops[len(r.ops)-n:]
}

func TestAddressMatchCommitOrdering(t *testing.T) {
	// The latch-commit-rearm sequence is a hardware contract: the
	// acknowledge action must be latched before the address-match
	// command, and ACK re-armed immediately after.
	t.Run("buffer armed acks", func(t *testing.T) {
		regs := &recordRegs{}
		m := NewModule(regs)
		require.NoError(t, m.ReadPacketJob(make([]byte, 4)))

		regs.flags = hal.IntAddressMatch
		m.Interrupt()

		assert.Equal(t, []string{"ack", "cmd=3", "ack"}, regs.tail(3))
		assert.Equal(t, DirectionWrite, m.Direction())
	})

	t.Run("no buffer nacks", func(t *testing.T) {
		regs := &recordRegs{ena: hal.IntAddressMatch}
		m := NewModule(regs)

		regs.flags = hal.IntAddressMatch
		m.Interrupt()

		assert.Equal(t, []string{"nack", "cmd=3", "ack"}, regs.tail(3))
	})

	t.Run("nack policy wins over buffer", func(t *testing.T) {
		regs := &recordRegs{}
		m := NewModule(regs)
		require.NoError(t, m.ReadPacketJob(make([]byte, 4)))
		m.EnableNackOnAddress()

		regs.flags = hal.IntAddressMatch
		m.Interrupt()

		assert.Equal(t, []string{"nack", "cmd=3", "ack"}, regs.tail(3))
	})
}

func TestAddressMatchDirection(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.WritePacketJob([]byte{1, 2}))

	regs.flags = hal.IntAddressMatch
	regs.status = hal.StatusDirectionRead
	m.Interrupt()

	assert.Equal(t, DirectionRead, m.Direction())
}

func TestAddressMatchRequestCallbackArmsBuffer(t *testing.T) {
	// A request callback arming a job mid-handler must influence the
	// acknowledge decision of the same address match.
	regs := &recordRegs{}
	m := NewModule(regs)

	buf := make([]byte, 2)
	require.NoError(t, m.RegisterCallback(CallbackWriteRequest, func(m *Module) {
		assert.NoError(t, m.ReadPacketJob(buf))
	}))
	require.NoError(t, m.EnableCallback(CallbackWriteRequest))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()

	assert.Equal(t, []string{"ack", "cmd=3", "ack"}, regs.tail(3))
	assert.True(t, m.Busy())
}

func TestAddressMatchBusError(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)

	var fired int
	require.NoError(t, m.RegisterCallback(CallbackErrorLastTransfer, func(m *Module) {
		fired++
		assert.Equal(t, pkg.StatusErrIO, m.Status())
	}))
	require.NoError(t, m.EnableCallback(CallbackErrorLastTransfer))
	require.NoError(t, m.ReadPacketJob(make([]byte, 2)))

	regs.flags = hal.IntAddressMatch
	regs.status = hal.StatusBusError
	m.Interrupt()

	assert.Equal(t, 1, fired)
	assert.Equal(t, pkg.StatusErrIO, m.Status())
	// The acknowledge decision proceeds independently of the latched
	// fault; the armed buffer still ACKs.
	assert.Equal(t, []string{"ack", "cmd=3", "ack"}, regs.tail(3))
}

func TestDataReadyMovesOneBytePerEvent(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	buf := make([]byte, 3)
	require.NoError(t, m.ReadPacketJob(buf))

	regs.flags = hal.IntAddressMatch
	m.Interrupt() // direction write

	for i, b := range []byte{0x11, 0x22, 0x33} {
		regs.data = b
		regs.flags = hal.IntDataReady
		m.Interrupt()

		assert.Equal(t, b, buf[i])
		assert.Equal(t, 2-i, m.bufferRemaining)
		assert.LessOrEqual(t, m.bufferRemaining, m.bufferLength)
	}
}

func TestDataReadyOverflow(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.ReadPacketJob(make([]byte, 1)))

	var fired int
	require.NoError(t, m.RegisterCallback(CallbackError, func(m *Module) { fired++ }))
	require.NoError(t, m.EnableCallback(CallbackError))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()

	regs.data = 0xAA
	regs.flags = hal.IntDataReady
	m.Interrupt() // fills the buffer

	regs.data = 0xBB
	regs.flags = hal.IntDataReady
	m.Interrupt() // would overflow

	assert.Equal(t, pkg.StatusErrOverflow, m.Status())
	assert.Equal(t, 1, fired)
	assert.False(t, m.Busy())
	assert.Equal(t, []string{"nack", "cmd=2"}, regs.tail(2))
}

func TestDataReadyMasterNackEndsRead(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.WritePacketJob([]byte{0x01, 0x02, 0x03}))

	regs.flags = hal.IntAddressMatch
	regs.status = hal.StatusDirectionRead
	m.Interrupt()

	regs.flags = hal.IntDataReady
	regs.status = hal.StatusDirectionRead
	m.Interrupt() // first byte out

	regs.flags = hal.IntDataReady
	regs.status = hal.StatusDirectionRead | hal.StatusNackReceived
	m.Interrupt() // master is done

	assert.Equal(t, pkg.StatusOK, m.Status())
	assert.False(t, m.Busy())
	assert.Equal(t, 1, m.LastTransfer())
	assert.Zero(t, regs.ena&hal.IntDataReady, "data-ready interrupt should be off")
	assert.NotZero(t, regs.ena&hal.IntAddressMatch, "address match stays live")
}

func TestStopFinalizesClean(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	buf := make([]byte, 2)
	require.NoError(t, m.ReadPacketJob(buf))

	var completed int
	require.NoError(t, m.RegisterCallback(CallbackReadComplete, func(m *Module) {
		completed++
		assert.Equal(t, 2, m.LastTransfer())
	}))
	require.NoError(t, m.EnableCallback(CallbackReadComplete))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	for _, b := range []byte{0x10, 0x20} {
		regs.data = b
		regs.flags = hal.IntDataReady
		m.Interrupt()
	}

	regs.flags = hal.IntStop
	m.Interrupt()

	assert.Equal(t, 1, completed)
	assert.Equal(t, pkg.StatusOK, m.Status())
	assert.False(t, m.Busy())
	assert.Equal(t, []byte{0x10, 0x20}, buf)
}

func TestStopDisablesAddressMatchWithoutRequestCallbacks(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.ReadPacketJob(make([]byte, 1)))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	regs.flags = hal.IntStop
	m.Interrupt()

	assert.Zero(t, regs.ena, "all interrupts off with no request callback enabled")
}

func TestStopKeepsAddressMatchWithRequestCallback(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.RegisterCallback(CallbackWriteRequest, func(*Module) {}))
	require.NoError(t, m.EnableCallback(CallbackWriteRequest))
	require.NoError(t, m.ReadPacketJob(make([]byte, 1)))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	regs.flags = hal.IntStop
	m.Interrupt()

	assert.Equal(t, hal.IntAddressMatch, regs.ena)
}

func TestStopPreservesErrorStatus(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	require.NoError(t, m.ReadPacketJob(make([]byte, 1)))

	var completed int
	require.NoError(t, m.RegisterCallback(CallbackReadComplete, func(*Module) { completed++ }))
	require.NoError(t, m.EnableCallback(CallbackReadComplete))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	// Overflow: fill the single-byte buffer, then one more.
	for i := 0; i < 2; i++ {
		regs.data = byte(i)
		regs.flags = hal.IntDataReady
		m.Interrupt()
	}
	regs.flags = hal.IntStop
	m.Interrupt()

	assert.Equal(t, pkg.StatusErrOverflow, m.Status())
	assert.Zero(t, completed, "no completion after an aborted transfer")
}

func TestRepeatedStartFinalizesPartialTransfer(t *testing.T) {
	regs := &recordRegs{}
	m := NewModule(regs)
	buf := make([]byte, 4)
	require.NoError(t, m.ReadPacketJob(buf))

	var events []string
	require.NoError(t, m.RegisterCallback(CallbackReadComplete, func(m *Module) {
		events = append(events, fmt.Sprintf("read-complete:%d", m.LastTransfer()))
	}))
	require.NoError(t, m.EnableCallback(CallbackReadComplete))
	require.NoError(t, m.RegisterCallback(CallbackReadRequest, func(m *Module) {
		events = append(events, "read-request")
		assert.NoError(t, m.WritePacketJob([]byte{0xEE}))
	}))
	require.NoError(t, m.EnableCallback(CallbackReadRequest))

	regs.flags = hal.IntAddressMatch
	m.Interrupt()
	for _, b := range []byte{1, 2} {
		regs.data = b
		regs.flags = hal.IntDataReady
		m.Interrupt()
	}

	// Repeated start for a master read: the partially consumed write
	// finalizes before the new acknowledge decision.
	regs.flags = hal.IntAddressMatch
	regs.status = hal.StatusDirectionRead
	m.Interrupt()

	assert.Equal(t, []string{"read-complete:2", "read-request"}, events)
	assert.Equal(t, DirectionRead, m.Direction())
	assert.Equal(t, []string{"ack", "cmd=3", "ack"}, regs.tail(3))
}
