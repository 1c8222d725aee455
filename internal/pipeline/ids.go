package pipeline

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier prefixes
const (
	AnalysisIDPrefix = "jd_"
	RoadmapIDPrefix  = "roadmap_"
)

// idSuffixLen is the number of hex characters kept from a random UUID (48 bits).
const idSuffixLen = 12

// NewID returns prefix followed by 12 lowercase hex characters from a random v4 UUID.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:idSuffixLen]
}
