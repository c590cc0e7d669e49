package signal

// Set is a bitmask of signal kinds, used to select which pending
// signals a dequeue is interested in.
type Set uint64

// SetOf builds a set from the given kinds.
func SetOf(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns the set extended with k.
func (s Set) With(k Kind) Set {
	return s | 1<<uint(k)
}

// Without returns the set with k removed.
func (s Set) Without(k Kind) Set {
	return s &^ (1 << uint(k))
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	return s&(1<<uint(k)) != 0
}

// Empty reports whether the set contains no kinds.
func (s Set) Empty() bool {
	return s == 0
}
