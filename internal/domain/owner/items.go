package owner

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProjectTitleRequired       = errors.New("project title is required")
	ErrProjectDescriptionRequired = errors.New("project description is required")
	ErrWorkFieldsRequired         = errors.New("company, role, duration and description are required")
)

type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SkillsUsed  []string  `json:"skillsUsed"`
	Links       []string  `json:"links"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Project) ItemID() uuid.UUID { return p.ID }

// CreatedTime falls back to the timestamp inside the id for items written
// before CreatedAt was recorded.
func (p Project) CreatedTime() time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return IDTime(p.ID)
}

// HasSkill reports whether any tag contains needle, ignoring case.
func (p Project) HasSkill(needle string) bool {
	needle = strings.ToLower(needle)
	for _, s := range p.SkillsUsed {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

type ProjectFields struct {
	Title       string
	Description string
	SkillsUsed  []string
	Links       []string
}

func (f ProjectFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrProjectTitleRequired
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrProjectDescriptionRequired
	}
	return nil
}

func NewProject(f ProjectFields, now time.Time) (Project, error) {
	if err := f.Validate(); err != nil {
		return Project{}, err
	}
	return Project{
		ID:          NewItemID(),
		Title:       f.Title,
		Description: f.Description,
		SkillsUsed:  nonNil(f.SkillsUsed),
		Links:       nonNil(f.Links),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ProjectPatch carries only the fields a caller sent; nil means keep.
type ProjectPatch struct {
	Title       *string
	Description *string
	SkillsUsed  *[]string
	Links       *[]string
}

func (p Project) Apply(patch ProjectPatch, now time.Time) (Project, error) {
	next := p
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.SkillsUsed != nil {
		next.SkillsUsed = nonNil(*patch.SkillsUsed)
	}
	if patch.Links != nil {
		next.Links = nonNil(*patch.Links)
	}
	err := ProjectFields{Title: next.Title, Description: next.Description}.Validate()
	if err != nil {
		return p, err
	}
	next.UpdatedAt = now
	return next, nil
}

type WorkEntry struct {
	ID          uuid.UUID `json:"id"`
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	Duration    string    `json:"duration"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (w WorkEntry) ItemID() uuid.UUID { return w.ID }

type WorkFields struct {
	Company     string
	Role        string
	Duration    string
	Description string
}

func (f WorkFields) Validate() error {
	for _, v := range []string{f.Company, f.Role, f.Duration, f.Description} {
		if strings.TrimSpace(v) == "" {
			return ErrWorkFieldsRequired
		}
	}
	return nil
}

func NewWorkEntry(f WorkFields, now time.Time) (WorkEntry, error) {
	if err := f.Validate(); err != nil {
		return WorkEntry{}, err
	}
	return WorkEntry{
		ID:          NewItemID(),
		Company:     f.Company,
		Role:        f.Role,
		Duration:    f.Duration,
		Description: f.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type WorkPatch struct {
	Company     *string
	Role        *string
	Duration    *string
	Description *string
}

func (w WorkEntry) Apply(patch WorkPatch, now time.Time) (WorkEntry, error) {
	next := w
	if patch.Company != nil {
		next.Company = *patch.Company
	}
	if patch.Role != nil {
		next.Role = *patch.Role
	}
	if patch.Duration != nil {
		next.Duration = *patch.Duration
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	err := WorkFields{Company: next.Company, Role: next.Role, Duration: next.Duration, Description: next.Description}.Validate()
	if err != nil {
		return w, err
	}
	next.UpdatedAt = now
	return next, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
