package testsupport

import "github.com/google/uuid"

// NewID returns a random entity id for fixtures.
func NewID() string {
	return uuid.NewString()
}

// NewIDs returns n distinct random entity ids.
func NewIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
