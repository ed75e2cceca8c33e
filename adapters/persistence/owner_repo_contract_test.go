package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

// ownerRepoContract holds the behaviour every owner.Repository driver must
// share. Driver suites embed it and provide reset.
type ownerRepoContract struct {
	suite.Suite
	repo  owner.Repository
	reset func() owner.Repository
}

func (s *ownerRepoContract) SetupTest() {
	s.repo = s.reset()
}

var contractBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (s *ownerRepoContract) newOwner(name string, complete bool, createdMinute int) *owner.Owner {
	o := owner.New(fmt.Sprintf("%s@example.com", name), name, "hash-"+name, contractBase.Add(time.Duration(createdMinute)*time.Minute))
	o.ProfileComplete = complete
	return o
}

func (s *ownerRepoContract) create(o *owner.Owner) *owner.Owner {
	s.Require().NoError(s.repo.Create(context.Background(), o))
	return o
}

func (s *ownerRepoContract) TestCreateAndFind_RoundTrip() {
	ctx := context.Background()
	o := s.newOwner("jane", true, 0)
	o.Education = "B.Tech"
	o.Skills = []string{"Go", "React", "Go"}
	o.Links = owner.Links{GitHub: "gh", LinkedIn: "li", Portfolio: "pf"}
	p1, _ := owner.NewProject(owner.ProjectFields{Title: "one", Description: "d", SkillsUsed: []string{"Go"}, Links: []string{"https://x"}}, contractBase)
	p2, _ := owner.NewProject(owner.ProjectFields{Title: "two", Description: "d"}, contractBase.Add(time.Minute))
	w, _ := owner.NewWorkEntry(owner.WorkFields{Company: "Acme", Role: "Dev", Duration: "1y", Description: "x"}, contractBase)
	s.Require().NoError(o.Projects.Append(p1))
	s.Require().NoError(o.Projects.Append(p2))
	s.Require().NoError(o.Work.Append(w))
	s.create(o)
	s.EqualValues(1, o.Version)

	got, err := s.repo.FindByID(ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(o.Email, got.Email)
	s.Equal("hash-jane", got.PasswordHash)
	s.Equal("B.Tech", got.Education)
	s.Equal([]string{"Go", "React", "Go"}, got.Skills)
	s.Equal(o.Links, got.Links)
	s.True(got.ProfileComplete)
	s.EqualValues(1, got.Version)
	s.WithinDuration(o.CreatedAt, got.CreatedAt, time.Millisecond)

	projects := got.Projects.Items()
	s.Require().Len(projects, 2)
	s.Equal(p1.ID, projects[0].ID)
	s.Equal(p2.ID, projects[1].ID)
	s.Equal([]string{"Go"}, projects[0].SkillsUsed)
	s.Equal([]string{"https://x"}, projects[0].Links)
	s.Equal([]string{}, projects[1].SkillsUsed)
	work := got.Work.Items()
	s.Require().Len(work, 1)
	s.Equal("Acme", work[0].Company)

	byEmail, err := s.repo.FindByEmail(ctx, "  JANE@example.com ")
	s.Require().NoError(err)
	s.Equal(o.ID, byEmail.ID)

	_, err = s.repo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
	_, err = s.repo.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ownerRepoContract) TestCreate_DuplicateEmail() {
	s.create(s.newOwner("jane", false, 0))

	dup := s.newOwner("jane", false, 1)
	err := s.repo.Create(context.Background(), dup)
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *ownerRepoContract) TestSave_Versioning() {
	ctx := context.Background()
	o := s.create(s.newOwner("jane", false, 0))

	a, err := s.repo.FindByID(ctx, o.ID)
	s.Require().NoError(err)
	b, err := s.repo.FindByID(ctx, o.ID)
	s.Require().NoError(err)

	a.Name = "Jane A"
	s.Require().NoError(s.repo.Save(ctx, a))
	s.EqualValues(2, a.Version)

	b.Name = "Jane B"
	s.ErrorIs(s.repo.Save(ctx, b), owner.ErrVersionConflict)

	got, err := s.repo.FindByID(ctx, o.ID)
	s.Require().NoError(err)
	s.Equal("Jane A", got.Name)
	s.EqualValues(2, got.Version)

	ghost := s.newOwner("ghost", false, 0)
	ghost.Version = 1
	s.ErrorIs(s.repo.Save(ctx, ghost), apperror.ErrNotFound)
}

func (s *ownerRepoContract) TestFindAnyComplete_Earliest() {
	ctx := context.Background()
	_, err := s.repo.FindAnyComplete(ctx)
	s.ErrorIs(err, apperror.ErrNotFound)

	s.create(s.newOwner("draft", false, 0))
	s.create(s.newOwner("late", true, 10))
	early := s.create(s.newOwner("early", true, 5))

	got, err := s.repo.FindAnyComplete(ctx)
	s.Require().NoError(err)
	s.Equal(early.ID, got.ID)

	all, err := s.repo.ListComplete(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *ownerRepoContract) TestSearch() {
	ctx := context.Background()
	zed := s.newOwner("zed", true, 0)
	zed.Skills = []string{"ReactJS"}
	amy := s.newOwner("amy", true, 1)
	amy.Education = "MIT"
	bob := s.newOwner("bob", true, 2)
	bob.Skills = []string{"c++"}
	hidden := s.newOwner("react-fan", false, 3)
	for _, o := range []*owner.Owner{zed, amy, bob, hidden} {
		s.create(o)
	}

	owners, total, err := s.repo.Search(ctx, owner.SearchQuery{Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Equal([]string{"amy", "bob", "zed"}, names(owners))

	owners, total, err = s.repo.Search(ctx, owner.SearchQuery{Text: "react", Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal([]string{"zed"}, names(owners))

	owners, _, err = s.repo.Search(ctx, owner.SearchQuery{Text: "mit", Limit: 10})
	s.Require().NoError(err)
	s.Equal([]string{"amy"}, names(owners))

	owners, _, err = s.repo.Search(ctx, owner.SearchQuery{Text: "C++", Limit: 10})
	s.Require().NoError(err)
	s.Equal([]string{"bob"}, names(owners))

	owners, total, err = s.repo.Search(ctx, owner.SearchQuery{Text: "%", Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(0, total)
	s.Empty(owners)

	owners, total, err = s.repo.Search(ctx, owner.SearchQuery{Text: "example.com", Skip: 1, Limit: 1})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Equal([]string{"bob"}, names(owners))

	owners, total, err = s.repo.Search(ctx, owner.SearchQuery{Skip: 30, Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.NotNil(owners)
	s.Empty(owners)
}

func names(owners []*owner.Owner) []string {
	out := make([]string, 0, len(owners))
	for _, o := range owners {
		out = append(out, o.Name)
	}
	return out
}
