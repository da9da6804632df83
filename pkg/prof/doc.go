// Package prof provides on-demand pprof profiling for the softi2c
// commands.
//
// The package is conditionally compiled with the "profile" build tag:
//
//	go build -tags profile ./cmd/softi2c-sim
//
// Without the tag every exported function is a no-op, so profiling
// hooks stay wired in the commands with zero overhead in normal builds.
//
// CPU profiling streams samples between explicit start and stop:
//
//	prof.StartCPU("cpu.prof")
//	defer prof.StopCPU()
//
// Snapshot profiles capture a point in time:
//
//	prof.Write(prof.ProfileHeap, "heap.prof")
package prof
