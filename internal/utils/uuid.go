package utils

import "github.com/google/uuid"

// TempIDPrefix marks locally assigned placeholder IDs that will be rewritten
// to server-assigned IDs after a successful push.
const TempIDPrefix = "tmp-"

// UUIDGenerator produces time-ordered identifiers for idempotency keys and
// temporary entity IDs. V7 keeps keys sortable by creation time; the random
// fallback only fires if the system clock is unusable.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// GenerateTempID returns a fresh placeholder ID for a locally created entity.
func (g *UUIDGenerator) GenerateTempID() string {
	return TempIDPrefix + g.Generate()
}
