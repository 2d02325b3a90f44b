package pack

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentID computes the payload's content identifier: the
// hex-encoded BLAKE3-256 digest of the exact payload bytes. It is the
// launcher-side cache key, so it must change whenever any payload
// input changes and must be stable across rebuilds with identical
// inputs.
func ContentID(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
