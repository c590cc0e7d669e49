package fs

// CreationMask is the process file-creation mask (umask). Shareable
// across a process's threads under the owning lock.
type CreationMask uint16

// DefaultCreationMask is the boot-time umask.
const DefaultCreationMask CreationMask = 0o022

// NewCreationMask returns the default mask.
func NewCreationMask() CreationMask {
	return DefaultCreationMask
}

// Apply strips masked bits from a requested mode.
func (m CreationMask) Apply(mode uint16) uint16 {
	return mode &^ uint16(m)
}

// Set replaces the mask and returns the previous value.
func (m *CreationMask) Set(newMask CreationMask) CreationMask {
	old := *m
	*m = newMask & 0o777
	return old
}
