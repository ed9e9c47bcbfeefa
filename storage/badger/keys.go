package badger

import (
	"encoding/binary"

	"github.com/poiesic/respite/core"
)

// Key prefixes for different data types
const (
	passagePrefix = "pasrec"
)

// makePassageKey generates a key for a passage by ID.
// IDs are encoded in BigEndian so lexicographic iteration order matches
// ascending ID order, which ListPassages relies on.
func makePassageKey(id core.ID) []byte {
	prefix := passagePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
