package owner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProject(t *testing.T, title string, skills ...string) Project {
	t.Helper()
	p, err := NewProject(ProjectFields{Title: title, Description: "d", SkillsUsed: skills}, time.Now().UTC())
	require.NoError(t, err)
	return p
}

func TestCollection_OrderAndIndex(t *testing.T) {
	var c Collection[Project]
	a, b, d := mustProject(t, "a"), mustProject(t, "b"), mustProject(t, "d")
	require.NoError(t, c.Append(a))
	require.NoError(t, c.Append(b))
	require.NoError(t, c.Append(d))

	assert.Equal(t, 3, c.Len())
	assert.ErrorIs(t, c.Append(b), ErrDuplicateItem)

	assert.True(t, c.Remove(b.ID))
	assert.False(t, c.Remove(b.ID))
	assert.False(t, c.Remove(uuid.New()))

	titles := []string{}
	for _, p := range c.Items() {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"a", "d"}, titles)

	a.Title = "a2"
	assert.True(t, c.Replace(a))
	got, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a2", got.Title)
	assert.Equal(t, "a2", c.Items()[0].Title)

	assert.False(t, c.Replace(b))
}

func TestCollection_JSONRoundTripKeepsOrder(t *testing.T) {
	c, err := NewCollection(mustProject(t, "x"), mustProject(t, "y"))
	require.NoError(t, err)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var back Collection[Project]
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c.Items(), back.Items())
}

func TestCollection_JSONRejectsDuplicateIDs(t *testing.T) {
	p := mustProject(t, "x")
	raw, err := json.Marshal([]Project{p, p})
	require.NoError(t, err)

	var back Collection[Project]
	assert.ErrorIs(t, json.Unmarshal(raw, &back), ErrDuplicateItem)
}

func TestCollection_ZeroValueMarshalsAsEmptyArray(t *testing.T) {
	raw, err := json.Marshal(New("a@x.com", "A", "h", time.Now()))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, []any{}, m["projects"])
	assert.Equal(t, []any{}, m["work"])
	assert.NotContains(t, m, "PasswordHash")
	assert.NotContains(t, m, "passwordHash")
}

func TestProject_ApplyIsShallowAndKeepsID(t *testing.T) {
	p := mustProject(t, "old", "Go")
	title := "new"
	later := p.CreatedAt.Add(time.Minute)

	next, err := p.Apply(ProjectPatch{Title: &title}, later)
	require.NoError(t, err)
	assert.Equal(t, p.ID, next.ID)
	assert.Equal(t, "new", next.Title)
	assert.Equal(t, p.Description, next.Description)
	assert.Equal(t, []string{"Go"}, next.SkillsUsed)
	assert.Equal(t, later, next.UpdatedAt)

	empty := ""
	_, err = p.Apply(ProjectPatch{Title: &empty}, later)
	assert.ErrorIs(t, err, ErrProjectTitleRequired)
}

func TestProject_HasSkillIgnoresCase(t *testing.T) {
	p := mustProject(t, "t", "React", "Go")
	assert.True(t, p.HasSkill("react"))
	assert.True(t, p.HasSkill("EAC"))
	assert.False(t, p.HasSkill("rust"))
}

func TestProject_CreatedTimeFallsBackToID(t *testing.T) {
	p := mustProject(t, "t")
	p.CreatedAt = time.Time{}
	ts := p.CreatedTime()
	assert.WithinDuration(t, time.Now(), ts, time.Minute)

	legacy := Project{ID: uuid.New()}
	assert.True(t, legacy.CreatedTime().IsZero())
}

func TestWorkEntry_Validation(t *testing.T) {
	_, err := NewWorkEntry(WorkFields{Company: "Acme", Role: "Dev"}, time.Now())
	assert.ErrorIs(t, err, ErrWorkFieldsRequired)

	w, err := NewWorkEntry(WorkFields{Company: "Acme", Role: "Dev", Duration: "2y", Description: "x"}, time.Now())
	require.NoError(t, err)
	role := "Lead"
	next, err := w.Apply(WorkPatch{Role: &role}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Lead", next.Role)
	assert.Equal(t, "Acme", next.Company)
}

func TestOwner_CompleteProfile(t *testing.T) {
	o := New("  A@X.com ", "A", "h", time.Now())
	assert.Equal(t, "a@x.com", o.Email)
	assert.False(t, o.ProfileComplete)

	name, edu := "A", "B.Tech"
	skills := []string{"Go", "Rust", "Go"}
	require.NoError(t, o.CompleteProfile(ProfilePatch{Name: &name, Education: &edu, Skills: &skills}, time.Now()))
	assert.True(t, o.ProfileComplete)
	assert.Equal(t, []string{"Go", "Rust", "Go"}, o.Skills)

	require.NoError(t, o.CompleteProfile(ProfilePatch{}, time.Now()))
	assert.True(t, o.ProfileComplete)
	assert.Equal(t, "B.Tech", o.Education)

	blank := " "
	assert.ErrorIs(t, o.CompleteProfile(ProfilePatch{Name: &blank}, time.Now()), ErrNameRequired)
}

func TestOwner_MatchesText(t *testing.T) {
	o := New("jane@example.com", "Jane Doe", "h", time.Now())
	o.Education = "B.Tech"
	o.Skills = []string{"React"}

	for _, q := range []string{"", "jane", "DOE", "example.com", "b.tech", "react", "eac"} {
		assert.True(t, o.MatchesText(q), q)
	}
	assert.False(t, o.MatchesText("rust"))
}

func TestOwner_CloneIsDeep(t *testing.T) {
	o := New("a@x.com", "A", "h", time.Now())
	p := mustProject(t, "p", "Go")
	require.NoError(t, o.Projects.Append(p))

	c := o.Clone()
	c.Skills = append(c.Skills, "x")
	require.True(t, c.Projects.Remove(p.ID))

	assert.Equal(t, 1, o.Projects.Len())
	assert.Empty(t, o.Skills)
}
