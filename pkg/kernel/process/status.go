package process

// Pid identifies a process for its lifetime.
type Pid int32

// Pgid identifies a process group; it is the pid of the group leader.
type Pgid int32

// ExitCode is the last exit-group code of a process.
type ExitCode int32

// Status is the process lifecycle state. Zombie is terminal from this
// core's perspective; reaping destroys the entity itself.
type Status int32

// Process statuses
const (
	StatusRunnable Status = iota
	StatusZombie
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusRunnable:
		return "runnable"
	case StatusZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// IsZombie reports whether the status is Zombie.
func (s Status) IsZombie() bool {
	return s == StatusZombie
}
