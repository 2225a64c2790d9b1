package lib

import (
	"github.com/google/uuid"
)

// NewID generates a UUID version 4 string (RFC 4122). Every dispatch
// attempt is tagged with one so parent and child log lines correlate.
func NewID() string {
	return uuid.NewString()
}
