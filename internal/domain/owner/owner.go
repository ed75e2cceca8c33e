package owner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrVersionConflict is returned by Repository.Save when the stored document
// changed after it was loaded.
var ErrVersionConflict = errors.New("owner was modified concurrently")

var ErrNameRequired = errors.New("name is required")

type Links struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// Owner is the aggregate root: an account together with its public profile
// and the projects and work history embedded in it.
type Owner struct {
	ID              uuid.UUID             `json:"id"`
	Email           string                `json:"email"`
	PasswordHash    string                `json:"-"`
	Name            string                `json:"name"`
	Education       string                `json:"education"`
	Skills          []string              `json:"skills"`
	Links           Links                 `json:"links"`
	ProfileComplete bool                  `json:"profileComplete"`
	Projects        Collection[Project]   `json:"projects"`
	Work            Collection[WorkEntry] `json:"work"`
	Version         int64                 `json:"-"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func New(email, name, passwordHash string, now time.Time) *Owner {
	return &Owner{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ProfilePatch holds the profile fields a caller sent; nil means keep.
type ProfilePatch struct {
	Name      *string
	Education *string
	Skills    *[]string
	Links     *Links
}

// CompleteProfile applies the patch and marks the profile complete. The flag
// is never cleared afterwards.
func (o *Owner) CompleteProfile(p ProfilePatch, now time.Time) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return ErrNameRequired
		}
		o.Name = *p.Name
	}
	if p.Education != nil {
		o.Education = *p.Education
	}
	if p.Skills != nil {
		o.Skills = nonNil(*p.Skills)
	}
	if p.Links != nil {
		o.Links = *p.Links
	}
	o.ProfileComplete = true
	o.UpdatedAt = now
	return nil
}

// MatchesText reports whether q occurs, ignoring case, in the name, email,
// education or any skill. An empty q matches everything.
func (o *Owner) MatchesText(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.Name), q) ||
		strings.Contains(strings.ToLower(o.Email), q) ||
		strings.Contains(strings.ToLower(o.Education), q) {
		return true
	}
	for _, s := range o.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Owner) Clone() *Owner {
	c := *o
	c.Skills = nonNil(o.Skills)
	c.Projects, _ = NewCollection(cloneProjects(o.Projects.Items())...)
	c.Work, _ = NewCollection(o.Work.Items()...)
	return &c
}

func cloneProjects(in []Project) []Project {
	for i := range in {
		in[i].SkillsUsed = nonNil(in[i].SkillsUsed)
		in[i].Links = nonNil(in[i].Links)
	}
	return in
}

type SearchQuery struct {
	Text  string
	Skip  int
	Limit int
}

type Repository interface {
	// Create inserts a new owner. A duplicate email yields an apperror conflict.
	Create(ctx context.Context, o *Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)
	FindByEmail(ctx context.Context, email string) (*Owner, error)
	// FindAnyComplete returns one owner with a completed profile, the earliest
	// created one.
	FindAnyComplete(ctx context.Context) (*Owner, error)
	ListComplete(ctx context.Context) ([]*Owner, error)
	// Search returns the page of completed owners matching q.Text ordered by
	// name, and the total number of matches.
	Search(ctx context.Context, q SearchQuery) ([]*Owner, int64, error)
	// Save replaces the whole document if its stored version still equals
	// o.Version, then increments o.Version.
	Save(ctx context.Context, o *Owner) error
}
