package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	courses []types.Course
	skills  []types.Skill
	err     error
}

func (f *fakeSource) ListCourses(context.Context) ([]types.Course, error) { return f.courses, f.err }
func (f *fakeSource) ListSkills(context.Context) ([]types.Skill, error)   { return f.skills, nil }

func testData() ([]types.Course, []types.Skill) {
	bsit := types.Course{ID: uuid.New(), Code: "BSIT", Name: "BS Information Technology", RequiredOJTHours: 486}
	bscs := types.Course{ID: uuid.New(), Code: "BSCS", Name: "BS Computer Science", RequiredOJTHours: 300}
	skills := []types.Skill{
		{ID: uuid.New(), Name: "SQL", CourseID: &bsit.ID},
		{ID: uuid.New(), Name: "Python", CourseID: &bsit.ID},
		{ID: uuid.New(), Name: "Django", CourseID: &bscs.ID},
		{ID: uuid.New(), Name: "Communication"},
	}
	return []types.Course{bsit, bscs}, skills
}

func TestCatalog_Lookups(t *testing.T) {
	courses, skills := testData()
	c := New(courses, skills)

	bsit, ok := c.CourseByCode("BSIT")
	require.True(t, ok)
	assert.Equal(t, 486, bsit.RequiredOJTHours)

	got, ok := c.Course(courses[1].ID)
	require.True(t, ok)
	assert.Equal(t, "BSCS", got.Code)

	_, ok = c.CourseByCode("BSED")
	assert.False(t, ok)

	skill, ok := c.SkillByName("py")
	require.True(t, ok)
	assert.Equal(t, "Python", skill.Name)
}

func TestCatalog_SkillsForCourse(t *testing.T) {
	courses, skills := testData()
	c := New(courses, skills)

	got := c.SkillsForCourse(courses[0].ID)
	require.Len(t, got, 2)
	assert.Equal(t, "Python", got[0].Name)
	assert.Equal(t, "SQL", got[1].Name)

	assert.Empty(t, c.SkillsForCourse(uuid.New()))
}

func TestCatalog_ResolveSkillNames(t *testing.T) {
	courses, skills := testData()
	c := New(courses, skills)

	existing, missing := c.ResolveSkillNames([]string{"sql", "Flutter", "SQL", "  ", "flutter"})
	require.Len(t, existing, 1)
	assert.Equal(t, "SQL", existing[0].Name)
	assert.Equal(t, []string{"Flutter"}, missing)
}

func TestLoad(t *testing.T) {
	courses, skills := testData()
	c, err := Load(context.Background(), &fakeSource{courses: courses, skills: skills})
	require.NoError(t, err)
	_, ok := c.CourseByCode("BSCS")
	assert.True(t, ok)

	_, err = Load(context.Background(), &fakeSource{err: errors.New("db down")})
	assert.Error(t, err)
}

func TestRefresh_KeepsSnapshotOnError(t *testing.T) {
	courses, skills := testData()
	c := New(courses, skills)

	require.Error(t, c.Refresh(context.Background(), &fakeSource{err: errors.New("db down")}))
	_, ok := c.CourseByCode("BSIT")
	assert.True(t, ok)

	require.NoError(t, c.Refresh(context.Background(), &fakeSource{courses: courses[:1]}))
	_, ok = c.CourseByCode("BSCS")
	assert.False(t, ok)
	_, ok = c.SkillByName("python")
	assert.False(t, ok)
}
