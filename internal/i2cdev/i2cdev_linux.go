//go:build linux

package i2cdev

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"softi2c/pkg"
)

// Linux i2c-dev master backed by /dev/i2c-*.
//
// Transfers go through I2C_RDWR so a combined write+read uses a repeated
// start, which is what exercises the slave core's repeated-start path on
// real hardware.

const (
	flagRead  = 0x0001 // I2C_M_RD
	ioctlRdwr = 0x0707 // I2C_RDWR
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrRequest struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an opened I2C adapter (e.g. /dev/i2c-1). It is not safe for
// concurrent transfers.
type Bus struct {
	f    *os.File
	path string
}

// Open opens the i2c-dev adapter at path.
func Open(path string) (*Bus, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentProbe, "bus opened", "path", path)
	return &Bus{f: f, path: path}, nil
}

// Close releases the adapter.
func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Path returns the device path the bus was opened with.
func (b *Bus) Path() string { return b.path }

// Device returns a handle for the slave at the given 7-bit address.
func (b *Bus) Device(addr uint8) *Device {
	return &Device{bus: b, addr: addr}
}

// Device addresses one slave on an open bus.
type Device struct {
	bus  *Bus
	addr uint8
}

// Write sends p to the slave in a single write transfer.
func (d *Device) Write(p []byte) error {
	return d.transfer(p, nil)
}

// Read fills p from the slave in a single read transfer.
func (d *Device) Read(p []byte) error {
	return d.transfer(nil, p)
}

// WriteRead sends w, then reads into r under a repeated start.
func (d *Device) WriteRead(w, r []byte) error {
	return d.transfer(w, r)
}

func (d *Device) transfer(w, r []byte) error {
	if d == nil || d.bus == nil || d.bus.f == nil {
		return os.ErrClosed
	}
	if d.addr == 0 || d.addr > 0x7F {
		return fmt.Errorf("invalid i2c address 0x%X", d.addr)
	}

	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{
			addr: uint16(d.addr),
			len:  uint16(len(w)),
			buf:  uintptr(unsafe.Pointer(&w[0])),
		})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{
			addr:  uint16(d.addr),
			flags: flagRead,
			len:   uint16(len(r)),
			buf:   uintptr(unsafe.Pointer(&r[0])),
		})
	}
	if len(msgs) == 0 {
		return nil
	}

	req := rdwrRequest{
		msgs:  uintptr(unsafe.Pointer(&msgs[0])),
		nmsgs: uint32(len(msgs)),
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.bus.f.Fd(),
		uintptr(ioctlRdwr), uintptr(unsafe.Pointer(&req)))
	if errno != 0 {
		return errno
	}
	return nil
}
