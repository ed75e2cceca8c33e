package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devfolio/internal/domain/owner"
)

// ownerDocument is the stored shape of an owner, shared by the mongo driver
// (bson) and the postgres driver (jsonb). Ids are kept as strings.
type ownerDocument struct {
	ID              string            `bson:"_id" json:"id"`
	Email           string            `bson:"email" json:"email"`
	PasswordHash    string            `bson:"password_hash" json:"password_hash"`
	Name            string            `bson:"name" json:"name"`
	Education       string            `bson:"education" json:"education"`
	Skills          []string          `bson:"skills" json:"skills"`
	Links           linksDocument     `bson:"links" json:"links"`
	ProfileComplete bool              `bson:"profile_complete" json:"profile_complete"`
	Projects        []projectDocument `bson:"projects" json:"projects"`
	Work            []workDocument    `bson:"work" json:"work"`
	Version         int64             `bson:"version" json:"version"`
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updated_at"`
}

type linksDocument struct {
	GitHub    string `bson:"github" json:"github"`
	LinkedIn  string `bson:"linkedin" json:"linkedin"`
	Portfolio string `bson:"portfolio" json:"portfolio"`
}

type projectDocument struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	SkillsUsed  []string  `bson:"skills_used" json:"skills_used"`
	Links       []string  `bson:"links" json:"links"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

type workDocument struct {
	ID          string    `bson:"_id" json:"id"`
	Company     string    `bson:"company" json:"company"`
	Role        string    `bson:"role" json:"role"`
	Duration    string    `bson:"duration" json:"duration"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

func toOwnerDocument(o *owner.Owner) ownerDocument {
	doc := ownerDocument{
		ID:              o.ID.String(),
		Email:           o.Email,
		PasswordHash:    o.PasswordHash,
		Name:            o.Name,
		Education:       o.Education,
		Skills:          stringsOrEmpty(o.Skills),
		Links:           linksDocument(o.Links),
		ProfileComplete: o.ProfileComplete,
		Projects:        make([]projectDocument, 0, o.Projects.Len()),
		Work:            make([]workDocument, 0, o.Work.Len()),
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, p := range o.Projects.Items() {
		doc.Projects = append(doc.Projects, projectDocument{
			ID:          p.ID.String(),
			Title:       p.Title,
			Description: p.Description,
			SkillsUsed:  stringsOrEmpty(p.SkillsUsed),
			Links:       stringsOrEmpty(p.Links),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	for _, w := range o.Work.Items() {
		doc.Work = append(doc.Work, workDocument{
			ID:          w.ID.String(),
			Company:     w.Company,
			Role:        w.Role,
			Duration:    w.Duration,
			Description: w.Description,
			CreatedAt:   w.CreatedAt,
			UpdatedAt:   w.UpdatedAt,
		})
	}
	return doc
}

func (d ownerDocument) toDomain() (*owner.Owner, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("owner id %q: %w", d.ID, err)
	}

	o := &owner.Owner{
		ID:              id,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Name:            d.Name,
		Education:       d.Education,
		Skills:          stringsOrEmpty(d.Skills),
		Links:           owner.Links(d.Links),
		ProfileComplete: d.ProfileComplete,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	for _, pd := range d.Projects {
		pid, err := uuid.Parse(pd.ID)
		if err != nil {
			return nil, fmt.Errorf("owner %s: project id %q: %w", d.ID, pd.ID, err)
		}
		err = o.Projects.Append(owner.Project{
			ID:          pid,
			Title:       pd.Title,
			Description: pd.Description,
			SkillsUsed:  stringsOrEmpty(pd.SkillsUsed),
			Links:       stringsOrEmpty(pd.Links),
			CreatedAt:   pd.CreatedAt,
			UpdatedAt:   pd.UpdatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("owner %s: %w", d.ID, err)
		}
	}
	for _, wd := range d.Work {
		wid, err := uuid.Parse(wd.ID)
		if err != nil {
			return nil, fmt.Errorf("owner %s: work id %q: %w", d.ID, wd.ID, err)
		}
		err = o.Work.Append(owner.WorkEntry{
			ID:          wid,
			Company:     wd.Company,
			Role:        wd.Role,
			Duration:    wd.Duration,
			Description: wd.Description,
			CreatedAt:   wd.CreatedAt,
			UpdatedAt:   wd.UpdatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("owner %s: %w", d.ID, err)
		}
	}
	return o, nil
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
