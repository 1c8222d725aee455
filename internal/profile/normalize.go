package profile

import "strings"

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"gcp":        "Google Cloud",

	"amazon web services":   "AWS",
	"google cloud platform": "Google Cloud",
}

// CanonicalSkillName trims a skill name and maps well-known aliases to one spelling.
// Unknown names keep their original casing.
func CanonicalSkillName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := skillAliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}
