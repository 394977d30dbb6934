package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTicketID generates an opaque 10-character uppercase ticket identifier.
func NewTicketID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:10])
}

// NewTicketIDs generates n fresh ticket identifiers.
func NewTicketIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, NewTicketID())
	}
	return ids
}
