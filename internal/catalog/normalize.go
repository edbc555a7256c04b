// Package catalog holds the course and skill reference data shared by matching and profile checks.
package catalog

import "strings"

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"py":          "Python",
	"python3":     "Python",
	"js":          "JavaScript",
	"javascript":  "JavaScript",
	"ts":          "TypeScript",
	"typescript":  "TypeScript",
	"sql":         "SQL",
	"mysql":       "MySQL",
	"postgres":    "PostgreSQL",
	"postgresql":  "PostgreSQL",
	"html":        "HTML",
	"html5":       "HTML",
	"css":         "CSS",
	"css3":        "CSS",
	"php":         "PHP",
	"c#":          "C#",
	"csharp":      "C#",
	"c++":         "C++",
	"cpp":         "C++",
	"ms excel":    "Microsoft Excel",
	"excel":       "Microsoft Excel",
	"ms word":     "Microsoft Word",
	"word":        "Microsoft Word",
	"autocad":     "AutoCAD",
	"react.js":    "React",
	"reactjs":     "React",
	"node.js":     "Node.js",
	"nodejs":      "Node.js",
	"golang":      "Go",
	"networking":  "Networking",
	"seo":         "SEO",
	"ui/ux":       "UI/UX Design",
	"ux":          "UI/UX Design",
	"photoshop":   "Adobe Photoshop",
	"illustrator": "Adobe Illustrator",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}
	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms: capitalize first letter only
	if normalized == strings.ToUpper(normalized) && len(normalized) > 1 && !strings.Contains(lower, " ") {
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}

	// Mixed case is assumed intentional
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// SkillKey is the case-insensitive lookup key for a skill name.
func SkillKey(name string) string {
	return strings.ToLower(NormalizeSkillName(name))
}

// ParseSkillList splits a comma separated list of free-text skills, normalizing
// each entry and dropping blanks and duplicates. Order of first occurrence is kept.
func ParseSkillList(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := NormalizeSkillName(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
