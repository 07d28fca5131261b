// ABOUTME: Record id generation
// ABOUTME: Random UUID v4, with a math/rand hex id of the same shape if the UUID source fails
package data

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// uuidSource is swapped out in tests to exercise the fallback.
var uuidSource = uuid.NewRandom

// NewID returns a fresh record id.
func NewID() string {
	id, err := uuidSource()
	if err == nil {
		return id.String()
	}
	return fallbackID()
}

func fallbackID() string {
	return fmt.Sprintf("%08x-%04x-4%03x-%04x-%012x",
		rand.Uint32(),
		rand.Uint32()&0xffff,
		rand.Uint32()&0x0fff,
		(rand.Uint32()&0x3fff)|0x8000,
		rand.Uint64()&0xffffffffffff,
	)
}
