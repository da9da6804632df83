//go:build !linux

package i2cdev

import "softi2c/pkg"

// Stub keeping non-Linux builds working; i2c-dev only exists on Linux.

type Bus struct{}

func Open(path string) (*Bus, error) {
	return nil, pkg.ErrNotSupported
}

func (b *Bus) Close() error  { return nil }
func (b *Bus) Path() string  { return "" }
func (b *Bus) Device(addr uint8) *Device {
	return &Device{}
}

type Device struct{}

func (d *Device) Write(p []byte) error        { return pkg.ErrNotSupported }
func (d *Device) Read(p []byte) error         { return pkg.ErrNotSupported }
func (d *Device) WriteRead(w, r []byte) error { return pkg.ErrNotSupported }
