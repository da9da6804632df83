//go:build profile

package prof

import (
	"errors"
	"os"
	"runtime/pprof"
	"sync"
)

// Profiling errors.
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive = errors.New("cpu profile already active")

	// ErrInvalidProfile indicates an invalid or unsupported profile type.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile names a pprof snapshot profile.
type Profile string

// Snapshot profile types.
const (
	ProfileHeap      Profile = "heap"
	ProfileAllocs    Profile = "allocs"
	ProfileGoroutine Profile = "goroutine"
	ProfileBlock     Profile = "block"
	ProfileMutex     Profile = "mutex"
)

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}

var (
	cpuMutex  sync.Mutex
	cpuFile   *os.File
	cpuActive bool
)

// StartCPU starts CPU profiling, streaming samples to a file at path.
// Returns [ErrCPUProfileActive] if CPU profiling is already active.
func StartCPU(path string) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuActive {
		return ErrCPUProfileActive
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}

	cpuFile = f
	cpuActive = true
	return nil
}

// StopCPU stops CPU profiling and closes the profile file. Safe to call
// when profiling is not active.
func StopCPU() {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if !cpuActive {
		return
	}

	pprof.StopCPUProfile()

	if cpuFile != nil {
		cpuFile.Close()
		cpuFile = nil
	}

	cpuActive = false
}

// IsCPUActive reports whether CPU profiling is currently active.
func IsCPUActive() bool {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()
	return cpuActive
}

// Write captures the named snapshot profile to a file at path in binary
// protobuf format. Returns [ErrInvalidProfile] for unknown profiles.
func Write(profile Profile, path string) error {
	p := pprof.Lookup(string(profile))
	if p == nil {
		return ErrInvalidProfile
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return p.WriteTo(f, 0)
}
