package process

import "fmt"

// Resource identifies one limited resource.
type Resource int

// Limited resources
const (
	ResourceCPU Resource = iota
	ResourceData
	ResourceStack
	ResourceCore
	ResourceNofile
	ResourceAS
	resourceCount
)

// RlimitInfinity marks an unlimited resource.
const RlimitInfinity uint64 = ^uint64(0)

// Rlimit is a soft/hard limit pair for one resource.
type Rlimit struct {
	Cur uint64
	Max uint64
}

// ResourceLimits is the per-process limit table, guarded by the
// owning process's lock.
type ResourceLimits struct {
	limits [resourceCount]Rlimit
}

// DefaultResourceLimits returns the boot-time limits.
func DefaultResourceLimits() ResourceLimits {
	var l ResourceLimits
	for i := range l.limits {
		l.limits[i] = Rlimit{Cur: RlimitInfinity, Max: RlimitInfinity}
	}
	l.limits[ResourceNofile] = Rlimit{Cur: 1024, Max: 4096}
	l.limits[ResourceStack] = Rlimit{Cur: 8 << 20, Max: RlimitInfinity}
	l.limits[ResourceCore] = Rlimit{Cur: 0, Max: RlimitInfinity}
	return l
}

// Get returns the limit for a resource.
func (l *ResourceLimits) Get(r Resource) Rlimit {
	if r < 0 || r >= resourceCount {
		panic(fmt.Sprintf("process: unknown resource %d", r))
	}
	return l.limits[r]
}

// Set replaces the limit for a resource. Raising Cur above Max is a
// caller error.
func (l *ResourceLimits) Set(r Resource, lim Rlimit) error {
	if r < 0 || r >= resourceCount {
		panic(fmt.Sprintf("process: unknown resource %d", r))
	}
	if lim.Cur > lim.Max {
		return fmt.Errorf("process: soft limit %d above hard limit %d", lim.Cur, lim.Max)
	}
	l.limits[r] = lim
	return nil
}
