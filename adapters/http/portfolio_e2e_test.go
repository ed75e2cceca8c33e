package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/internal/domain/owner"
)

type profileView struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Skills          []string          `json:"skills"`
	ProfileComplete bool              `json:"profileComplete"`
	Projects        []owner.Project   `json:"projects"`
	Work            []owner.WorkEntry `json:"work"`
}

type PortfolioE2ETestSuite struct {
	suite.Suite
	api *testAPI
}

func (s *PortfolioE2ETestSuite) SetupTest() {
	s.api = newTestAPI(apiOptions{secret: testSecret})
}

func TestPortfolioE2E(t *testing.T) {
	suite.Run(t, new(PortfolioE2ETestSuite))
}

func (s *PortfolioE2ETestSuite) createProject(token, title string, skills ...string) owner.Project {
	rr := s.api.do(http.MethodPost, "/api/projects",
		gin.H{"title": title, "description": "about " + title, "skillsUsed": skills}, withBearer(token))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData[owner.Project](s.T(), rr)
}

func (s *PortfolioE2ETestSuite) profile(opts ...requestOption) profileView {
	rr := s.api.do(http.MethodGet, "/api/profile", nil, opts...)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	return decodeData[profileView](s.T(), rr)
}

func (s *PortfolioE2ETestSuite) Test_Health() {
	rr := s.api.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rr.Code)
	env := decode(s.T(), rr)
	s.True(env.Success)
	s.Equal("OK", env.Message)
}

func (s *PortfolioE2ETestSuite) Test_SignupLoginCompleteProfileScenario() {
	rr := s.api.do(http.MethodPost, "/api/auth/signup", gin.H{"name": "Jane", "email": "jane@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusCreated, rr.Code)

	rr = s.api.do(http.MethodPost, "/api/auth/login", gin.H{"email": "jane@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusOK, rr.Code)
	token := decodeData[AuthDTO](s.T(), rr).Token

	rr = s.api.do(http.MethodPost, "/api/profile", gin.H{
		"name":      "Jane Doe",
		"education": "B.Tech",
		"skills":    []string{"React", "Node", "Go"},
		"links":     gin.H{"github": "https://github.com/jane"},
	}, withBearer(token))
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	p := s.profile(withBearer(token))
	s.True(p.ProfileComplete)
	s.Equal("Jane Doe", p.Name)
	s.Equal([]string{"React", "Node", "Go"}, p.Skills)

	// Anonymous callers now see the only completed profile.
	s.Equal(p.ID, s.profile().ID)
}

func (s *PortfolioE2ETestSuite) Test_NoCompletedProfile() {
	rr := s.api.do(http.MethodGet, "/api/profile", nil)
	s.Equal(http.StatusNotFound, rr.Code)
	s.Equal("No profiles found", decode(s.T(), rr).Message)

	// An incomplete owner still sees their own profile.
	me, token := s.api.seedOwner(s.T(), "me@example.com", "Me", false)
	s.Equal(me.ID, s.profile(withCookie(token)).ID)
}

func (s *PortfolioE2ETestSuite) Test_CreateProjectThenProfileContainsIt() {
	_, token := s.api.seedOwner(s.T(), "me@example.com", "Me", false)

	first := s.createProject(token, "one", "Go")
	second := s.createProject(token, "two")
	s.NotEqual(uuid.Nil, first.ID)
	s.NotEqual(first.ID, second.ID)

	p := s.profile(withBearer(token))
	s.Require().Len(p.Projects, 2)
	s.Equal(first.ID, p.Projects[0].ID)
	s.Equal([]string{"Go"}, p.Projects[0].SkillsUsed)

	rr := s.api.do(http.MethodPost, "/api/projects", gin.H{"title": "no description"}, withBearer(token))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *PortfolioE2ETestSuite) Test_UpdateAndDeleteProject() {
	_, token := s.api.seedOwner(s.T(), "me@example.com", "Me", false)
	a := s.createProject(token, "a")
	b := s.createProject(token, "b")
	c := s.createProject(token, "c")

	rr := s.api.do(http.MethodPut, "/api/projects/"+b.ID.String(), gin.H{"title": "b2"}, withBearer(token))
	s.Require().Equal(http.StatusOK, rr.Code)
	updated := decodeData[owner.Project](s.T(), rr)
	s.Equal("b2", updated.Title)
	s.Equal("about b", updated.Description)

	rr = s.api.do(http.MethodPut, "/api/projects/"+uuid.NewString(), gin.H{"title": "x"}, withBearer(token))
	s.Equal(http.StatusNotFound, rr.Code)
	s.Equal("Project not found", decode(s.T(), rr).Message)

	rr = s.api.do(http.MethodPut, "/api/projects/not-a-uuid", gin.H{"title": "x"}, withBearer(token))
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal("invalid id", decode(s.T(), rr).Message)

	rr = s.api.do(http.MethodDelete, "/api/projects/"+b.ID.String(), nil, withBearer(token))
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("Project removed", decode(s.T(), rr).Message)

	p := s.profile(withBearer(token))
	s.Require().Len(p.Projects, 2)
	s.Equal(a.ID, p.Projects[0].ID)
	s.Equal(c.ID, p.Projects[1].ID)

	// Unknown ids are a successful no-op.
	rr = s.api.do(http.MethodDelete, "/api/projects/"+uuid.NewString(), nil, withBearer(token))
	s.Equal(http.StatusOK, rr.Code)
	s.Len(s.profile(withBearer(token)).Projects, 2)
}

func (s *PortfolioE2ETestSuite) Test_ProjectsOfAnotherOwnerAreUntouchable() {
	_, mine := s.api.seedOwner(s.T(), "me@example.com", "Me", false)
	_, theirs := s.api.seedOwner(s.T(), "them@example.com", "Them", false)
	p := s.createProject(mine, "mine")

	rr := s.api.do(http.MethodPut, "/api/projects/"+p.ID.String(), gin.H{"title": "stolen"}, withBearer(theirs))
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.api.do(http.MethodDelete, "/api/projects/"+p.ID.String(), nil, withBearer(theirs))
	s.Equal(http.StatusOK, rr.Code)
	s.Len(s.profile(withBearer(mine)).Projects, 1)
}

func (s *PortfolioE2ETestSuite) Test_ConcurrentProjectUpdatesBothSurvive() {
	_, token := s.api.seedOwner(s.T(), "me@example.com", "Me", false)
	other, otherToken := s.api.seedOwner(s.T(), "other@example.com", "Other", false)
	otherProject := s.createProject(otherToken, "untouched")
	x := s.createProject(token, "x")
	y := s.createProject(token, "y")

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, id := range []uuid.UUID{x.ID, y.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			rr := s.api.do(http.MethodPut, "/api/projects/"+id.String(), gin.H{"title": fmt.Sprintf("t%d", i)}, withBearer(token))
			codes[i] = rr.Code
		}(i, id)
	}
	wg.Wait()

	s.Equal([]int{http.StatusOK, http.StatusOK}, codes)
	p := s.profile(withBearer(token))
	s.Require().Len(p.Projects, 2)
	s.Equal("t0", p.Projects[0].Title)
	s.Equal("t1", p.Projects[1].Title)

	theirs := s.profile(withBearer(otherToken))
	s.Equal(other.ID, theirs.ID)
	s.Require().Len(theirs.Projects, 1)
	s.Equal(otherProject.Title, theirs.Projects[0].Title)
}

func (s *PortfolioE2ETestSuite) Test_WorkEntries() {
	_, token := s.api.seedOwner(s.T(), "me@example.com", "Me", false)

	rr := s.api.do(http.MethodPost, "/api/work", gin.H{"company": "Acme"}, withBearer(token))
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.api.do(http.MethodPost, "/api/work",
		gin.H{"company": "Acme", "role": "Dev", "duration": "2y", "description": "built things"}, withBearer(token))
	s.Require().Equal(http.StatusCreated, rr.Code)
	w := decodeData[owner.WorkEntry](s.T(), rr)

	rr = s.api.do(http.MethodPut, "/api/work/"+w.ID.String(), gin.H{"role": "Lead"}, withBearer(token))
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("Lead", decodeData[owner.WorkEntry](s.T(), rr).Role)

	rr = s.api.do(http.MethodPut, "/api/work/"+uuid.NewString(), gin.H{"role": "Lead"}, withBearer(token))
	s.Equal("Work item not found", decode(s.T(), rr).Message)

	rr = s.api.do(http.MethodDelete, "/api/work/"+w.ID.String(), nil, withBearer(token))
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("Work item removed", decode(s.T(), rr).Message)
	s.Empty(s.profile(withBearer(token)).Work)

	rr = s.api.do(http.MethodDelete, "/api/work/"+w.ID.String(), nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *PortfolioE2ETestSuite) seedProjects(name string, complete bool, n int, skills ...string) {
	o, _ := s.api.seedOwner(s.T(), name+"@example.com", name, complete)
	for i := 0; i < n; i++ {
		p, err := owner.NewProject(owner.ProjectFields{
			Title:       fmt.Sprintf("%s-%02d", name, i),
			Description: "d",
			SkillsUsed:  skills,
		}, time.Now().UTC().Add(time.Duration(i)*time.Second))
		s.Require().NoError(err)
		s.Require().NoError(o.Projects.Append(p))
	}
	s.Require().NoError(s.api.repo.Save(context.Background(), o))
}

func (s *PortfolioE2ETestSuite) Test_ProjectListingPagination() {
	s.seedProjects("alice", true, 7, "Go")
	s.seedProjects("bob", true, 6, "React")
	s.seedProjects("draft", false, 3, "Go")

	rr := s.api.do(http.MethodGet, "/api/projects", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	env := decode(s.T(), rr)
	s.Require().NotNil(env.Pagination)
	s.Equal(searchUC.Pagination{Total: 13, Page: 1, Limit: 6, Pages: 3}, *env.Pagination)

	rr = s.api.do(http.MethodGet, "/api/projects?page=3&limit=6", nil)
	s.Len(decodeData[[]searchUC.ListedProject](s.T(), rr), 1)

	rr = s.api.do(http.MethodGet, "/api/projects?page=4&limit=6", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	env = decode(s.T(), rr)
	s.JSONEq(`[]`, string(env.Data))
	s.Equal(3, env.Pagination.Pages)

	rr = s.api.do(http.MethodGet, "/api/projects?page=abc&limit=-1", nil)
	env = decode(s.T(), rr)
	s.Equal(1, env.Pagination.Page)
	s.Equal(6, env.Pagination.Limit)

	rr = s.api.do(http.MethodGet, "/api/projects?skill=react", nil)
	listed := decodeData[[]searchUC.ListedProject](s.T(), rr)
	s.Require().Len(listed, 6)
	s.Equal("bob", listed[0].OwnerName)
}

func (s *PortfolioE2ETestSuite) Test_SearchIsCaseInsensitive() {
	o, _ := s.api.seedOwner(s.T(), "jane@example.com", "Jane", true)
	o.Skills = []string{"react"}
	s.Require().NoError(s.api.repo.Save(context.Background(), o))
	s.api.seedOwner(s.T(), "max@example.com", "Max", true)

	rr := s.api.do(http.MethodGet, "/api/search?q=React", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	found := decodeData[[]profileView](s.T(), rr)
	s.Require().Len(found, 1)
	s.Equal(o.ID, found[0].ID)

	rr = s.api.do(http.MethodGet, "/api/search", nil)
	env := decode(s.T(), rr)
	s.EqualValues(2, env.Pagination.Total)
}

func (s *PortfolioE2ETestSuite) Test_ProjectsRSS() {
	s.seedProjects("alice", true, 2, "Go")

	rr := s.api.do(http.MethodGet, "/api/projects/rss?skill=go", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.True(strings.HasPrefix(rr.Header().Get("Content-Type"), "application/rss+xml"))
	s.Contains(rr.Body.String(), "<rss")
	s.Contains(rr.Body.String(), "alice-01")
}
