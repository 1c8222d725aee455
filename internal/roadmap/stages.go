package roadmap

import "github.com/jonathan/upskill-roadmap/internal/types"

// Stage describes one fixed phase of every roadmap.
type Stage struct {
	Name        string
	Description string
	Difficulty  string
	Focus       string
}

// Stages are the three phases in week order.
var Stages = [...]Stage{
	{
		Name:        "Beginner",
		Description: "Beginner phase: Learn fundamentals and basics",
		Difficulty:  types.DifficultyBeginner,
		Focus:       "core concepts, syntax and the official getting-started material",
	},
	{
		Name:        "Intermediate",
		Description: "Intermediate phase: Practical application and hands-on practice",
		Difficulty:  types.DifficultyIntermediate,
		Focus:       "building small working systems and practicing common patterns",
	},
	{
		Name:        "Job-Ready",
		Description: "Job-ready phase: Advanced concepts and production-level projects",
		Difficulty:  types.DifficultyAdvanced,
		Focus:       "production concerns such as testing, deployment, scaling and observability",
	},
}

// Partition splits skills into len(Stages) ordered groups. Group i receives
// ceil((n-i)/k) skills, so earlier groups never hold fewer skills than later ones.
func Partition(skills []string) [][]string {
	k := len(Stages)
	n := len(skills)
	groups := make([][]string, k)
	start := 0
	for i := range k {
		size := (n - i + k - 1) / k
		groups[i] = append([]string{}, skills[start:start+size]...)
		start += size
	}
	return groups
}
