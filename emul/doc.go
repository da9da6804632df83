// Package emul provides device personalities built on the slave core.
//
// An emulation owns a [softi2c/slave.Module] and implements a device's
// bus protocol entirely in the module's request and completion
// callbacks. [EEPROM] emulates a 24Cxx-style serial EEPROM and serves
// as the reference for writing new personalities.
package emul
