//go:build !profile

package prof

// Profiling errors (declared for API compatibility, never returned by
// the stubs).
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive error

	// ErrInvalidProfile indicates an invalid or unsupported profile type.
	ErrInvalidProfile error
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

// StartCPU is a no-op when built without the "profile" tag.
func StartCPU(_ string) error {
	return nil
}

// StopCPU is a no-op when built without the "profile" tag.
func StopCPU() {}

// IsCPUActive always returns false when built without the "profile" tag.
func IsCPUActive() bool {
	return false
}

// Write is a no-op when built without the "profile" tag.
func Write(_ Profile, _ string) error {
	return nil
}
