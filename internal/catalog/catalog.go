package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/types"
)

// Source loads the full catalog. It is implemented by the database layer.
type Source interface {
	ListCourses(ctx context.Context) ([]types.Course, error)
	ListSkills(ctx context.Context) ([]types.Skill, error)
}

// Catalog is a read-mostly, concurrency-safe snapshot of courses and skills.
type Catalog struct {
	mu          sync.RWMutex
	courses     map[uuid.UUID]types.Course
	courseCodes map[string]uuid.UUID
	skills      map[uuid.UUID]types.Skill
	skillNames  map[string]uuid.UUID
}

// New builds a catalog from in-memory data.
func New(courses []types.Course, skills []types.Skill) *Catalog {
	c := &Catalog{}
	c.replace(courses, skills)
	return c
}

// Load builds a catalog from a Source.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	courses, skills, err := fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return New(courses, skills), nil
}

// Refresh reloads the snapshot from src. The old snapshot stays in place when
// loading fails.
func (c *Catalog) Refresh(ctx context.Context, src Source) error {
	courses, skills, err := fetch(ctx, src)
	if err != nil {
		return err
	}
	c.replace(courses, skills)
	return nil
}

func fetch(ctx context.Context, src Source) ([]types.Course, []types.Skill, error) {
	courses, err := src.ListCourses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load courses: %w", err)
	}
	skills, err := src.ListSkills(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load skills: %w", err)
	}
	return courses, skills, nil
}

func (c *Catalog) replace(courses []types.Course, skills []types.Skill) {
	cm := make(map[uuid.UUID]types.Course, len(courses))
	codes := make(map[string]uuid.UUID, len(courses))
	for _, course := range courses {
		cm[course.ID] = course
		codes[course.Code] = course.ID
	}
	sm := make(map[uuid.UUID]types.Skill, len(skills))
	names := make(map[string]uuid.UUID, len(skills))
	for _, skill := range skills {
		sm[skill.ID] = skill
		names[SkillKey(skill.Name)] = skill.ID
	}

	c.mu.Lock()
	c.courses, c.courseCodes, c.skills, c.skillNames = cm, codes, sm, names
	c.mu.Unlock()
}

// Course returns the course with the given ID.
func (c *Catalog) Course(id uuid.UUID) (types.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[id]
	return course, ok
}

// CourseByCode returns the course with the given code, e.g. "BSIT".
func (c *Catalog) CourseByCode(code string) (types.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.courseCodes[code]
	if !ok {
		return types.Course{}, false
	}
	return c.courses[id], true
}

// SkillByName looks a skill up by name, ignoring case and known aliases.
func (c *Catalog) SkillByName(name string) (types.Skill, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.skillNames[SkillKey(name)]
	if !ok {
		return types.Skill{}, false
	}
	return c.skills[id], true
}

// SkillsForCourse returns the skills scoped to a course, sorted by name.
func (c *Catalog) SkillsForCourse(courseID uuid.UUID) []types.Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []types.Skill
	for _, s := range c.skills {
		if s.CourseID != nil && *s.CourseID == courseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveSkillNames splits names into catalog skills that already exist and
// normalized names that still need to be created.
func (c *Catalog) ResolveSkillNames(names []string) (existing []types.Skill, missing []string) {
	seen := make(map[string]bool)
	for _, raw := range names {
		name := NormalizeSkillName(raw)
		if name == "" {
			continue
		}
		key := SkillKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if skill, ok := c.SkillByName(name); ok {
			existing = append(existing, skill)
		} else {
			missing = append(missing, name)
		}
	}
	return existing, missing
}
