package irq

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID parses the goroutine id out of the runtime stack header
// ("goroutine N [running]:"). The runtime offers no cheaper stable
// identity for a goroutine, and the kernel only needs it on the lock
// and bind paths.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		panic("irq: malformed runtime stack header")
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		panic("irq: malformed goroutine id: " + err.Error())
	}
	return id
}

// GoroutineID exposes the calling goroutine's id for collaborators
// that key per-worker state the same way (thread binding).
func GoroutineID() uint64 {
	return goroutineID()
}
