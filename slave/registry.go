package slave

import (
	"sync"

	"softi2c/pkg"
)

// MaxInstances is the number of peripheral instance slots in the
// registry, sized for the largest SERCOM-style part family.
const MaxInstances = 8

var (
	// instances maps hardware instance index to module. The registry
	// locates modules, it never owns them. Slots must be populated with
	// Bind before interrupts are unmasked for that index; the interrupt
	// path reads the array without locking.
	instances [MaxInstances]*Module

	// bindMutex serializes setup-time registry mutation.
	bindMutex sync.Mutex
)

// Bind registers m as the module for the given peripheral instance
// index. Call it during driver initialization, before enabling the
// instance's interrupts.
func Bind(instance uint8, m *Module) error {
	if int(instance) >= MaxInstances {
		return pkg.ErrInvalidInstance
	}
	if m == nil {
		return pkg.ErrInvalidParameter
	}

	bindMutex.Lock()
	defer bindMutex.Unlock()

	if instances[instance] != nil {
		return pkg.ErrInstanceBound
	}
	instances[instance] = m

	pkg.LogDebug(pkg.ComponentSlave, "instance bound", "instance", instance)
	return nil
}

// Unbind clears the registry slot for the given instance index. The
// module itself is unaffected. Disable the instance's interrupts first.
func Unbind(instance uint8) {
	if int(instance) >= MaxInstances {
		return
	}

	bindMutex.Lock()
	defer bindMutex.Unlock()
	instances[instance] = nil
}

// Instance returns the module bound to the given instance index, or nil.
func Instance(instance uint8) *Module {
	if int(instance) >= MaxInstances {
		return nil
	}
	return instances[instance]
}

// Interrupt dispatches a hardware interrupt for the given instance index
// to its bound module. Events for unbound instances are dropped.
func Interrupt(instance uint8) {
	m := Instance(instance)
	if m == nil {
		pkg.LogWarn(pkg.ComponentSlave, "interrupt for unbound instance",
			"instance", instance)
		return
	}
	m.Interrupt()
}
