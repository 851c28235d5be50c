package app

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// newSeed draws a random-source seed from crypto/rand.
func newSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// extremely unlikely; the clock is good enough for a game
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
