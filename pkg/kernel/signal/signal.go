// Package signal holds per-process pending-signal storage and the
// handler-disposition table. Delivery and queuing live here;
// disposition interpretation belongs to the layer above.
package signal

import "fmt"

// Kind identifies one member of the closed set of signals the kernel
// delivers. Numbers follow the usual Unix assignments.
type Kind int32

// Signal kinds
const (
	SIGINT  Kind = 2
	SIGKILL Kind = 9
	SIGSEGV Kind = 11
	SIGTERM Kind = 15
	SIGCHLD Kind = 17
	SIGCONT Kind = 18
	SIGSTOP Kind = 19
)

// String returns the conventional name of the signal kind.
func (k Kind) String() string {
	switch k {
	case SIGINT:
		return "SIGINT"
	case SIGKILL:
		return "SIGKILL"
	case SIGSEGV:
		return "SIGSEGV"
	case SIGTERM:
		return "SIGTERM"
	case SIGCHLD:
		return "SIGCHLD"
	case SIGCONT:
		return "SIGCONT"
	case SIGSTOP:
		return "SIGSTOP"
	default:
		return fmt.Sprintf("SIG(%d)", int32(k))
	}
}

// Source tells how a signal was raised, selecting which payload
// fields are meaningful.
type Source int32

// Signal sources
const (
	// SourceKernel marks signals the kernel raises itself (SIGCHLD on
	// child exit, for one).
	SourceKernel Source = iota
	// SourceUser marks signals sent by another process; Sender holds
	// the sending pid.
	SourceUser
	// SourceFault marks hardware-fault signals; FaultAddr holds the
	// faulting address.
	SourceFault
)

// Signal is one queued signal instance: a kind tag plus the payload
// its source provides.
type Signal struct {
	Kind      Kind
	Source    Source
	Sender    int32
	FaultAddr uintptr
}

// Kernel builds a kernel-raised signal of the given kind.
func Kernel(kind Kind) Signal {
	return Signal{Kind: kind, Source: SourceKernel}
}

// User builds a user-raised signal carrying the sender's pid.
func User(kind Kind, sender int32) Signal {
	return Signal{Kind: kind, Source: SourceUser, Sender: sender}
}

// Fault builds a fault signal carrying the faulting address.
func Fault(kind Kind, addr uintptr) Signal {
	return Signal{Kind: kind, Source: SourceFault, FaultAddr: addr}
}
