package http

import (
	"github.com/google/uuid"

	"github.com/khoahotran/devfolio/internal/domain/owner"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Token           string    `json:"token"`
	ProfileComplete bool      `json:"profileComplete"`
}

func ToAuthDTO(o *owner.Owner, token string) AuthDTO {
	return AuthDTO{
		ID:              o.ID,
		Name:            o.Name,
		Email:           o.Email,
		Token:           token,
		ProfileComplete: o.ProfileComplete,
	}
}

// Pointer fields tell "not sent" apart from "sent empty".
type completeProfileRequest struct {
	Name      *string      `json:"name"`
	Education *string      `json:"education"`
	Skills    *[]string    `json:"skills"`
	Links     *owner.Links `json:"links"`
}

type projectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	SkillsUsed  *[]string `json:"skillsUsed"`
	Links       *[]string `json:"links"`
}

func (r projectRequest) fields() owner.ProjectFields {
	return owner.ProjectFields{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		SkillsUsed:  derefSlice(r.SkillsUsed),
		Links:       derefSlice(r.Links),
	}
}

func (r projectRequest) patch() owner.ProjectPatch {
	return owner.ProjectPatch{
		Title:       r.Title,
		Description: r.Description,
		SkillsUsed:  r.SkillsUsed,
		Links:       r.Links,
	}
}

type workRequest struct {
	Company     *string `json:"company"`
	Role        *string `json:"role"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

func (r workRequest) fields() owner.WorkFields {
	return owner.WorkFields{
		Company:     deref(r.Company),
		Role:        deref(r.Role),
		Duration:    deref(r.Duration),
		Description: deref(r.Description),
	}
}

func (r workRequest) patch() owner.WorkPatch {
	return owner.WorkPatch{
		Company:     r.Company,
		Role:        r.Role,
		Duration:    r.Duration,
		Description: r.Description,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefSlice(s *[]string) []string {
	if s == nil {
		return nil
	}
	return *s
}
