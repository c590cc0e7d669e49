package process

import "errors"

// Errors surfaced to the syscall layer. Contract violations are not
// errors; they panic.
var (
	// ErrNoChild is returned by WaitChild when the process has no
	// child matching the filter.
	ErrNoChild = errors.New("process: no matching child")

	// ErrWouldBlock is returned by a nonblocking WaitChild when
	// matching children exist but none is a zombie yet.
	ErrWouldBlock = errors.New("process: wait would block")
)
