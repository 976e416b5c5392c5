package data

// Boot-time string interning. Area files repeat the same keywords and
// materials thousands of times; the loader deduplicates them through
// this table, keyed by FNV-1a hash. Runtime allocations never enter it.

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

type internArena struct {
	table  map[uint64][]string
	sealed bool
}

var bootStrings = &internArena{table: make(map[uint64][]string)}

func fnv1a(s string) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

// BootInternString returns a canonical copy of s shared with every
// other boot-time load of the same text. Only the loader calls this;
// after SealInternArena the table stops growing and lookups fall
// through to the argument unchanged.
func BootInternString(s string) string {
	if bootStrings.sealed {
		return s
	}
	h := fnv1a(s)
	for _, have := range bootStrings.table[h] {
		if have == s {
			return have
		}
	}
	// Clone so the arena never pins a larger parse buffer.
	owned := string(append([]byte(nil), s...))
	bootStrings.table[h] = append(bootStrings.table[h], owned)
	return owned
}

// SealInternArena marks the end of boot; later loads (hot reload)
// allocate normally.
func SealInternArena() {
	bootStrings.sealed = true
}

// InternedCount reports how many distinct strings the arena holds.
func InternedCount() int {
	n := 0
	for _, bucket := range bootStrings.table {
		n += len(bucket)
	}
	return n
}
