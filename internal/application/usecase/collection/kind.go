package collection

import (
	"time"

	"github.com/khoahotran/devfolio/internal/domain/owner"
)

// Kind describes one embedded collection of the owner document: where it
// lives and how its items are built and patched.
type Kind[T owner.Item, F any, P any] struct {
	// Name prefixes event types, e.g. "project.added".
	Name string
	// Resource is the client-facing noun used in not-found messages.
	Resource string
	Items    func(o *owner.Owner) *owner.Collection[T]
	Create   func(fields F, now time.Time) (T, error)
	Apply    func(item T, patch P, now time.Time) (T, error)
}

var Projects = Kind[owner.Project, owner.ProjectFields, owner.ProjectPatch]{
	Name:     "project",
	Resource: "Project",
	Items:    func(o *owner.Owner) *owner.Collection[owner.Project] { return &o.Projects },
	Create:   owner.NewProject,
	Apply:    owner.Project.Apply,
}

var Work = Kind[owner.WorkEntry, owner.WorkFields, owner.WorkPatch]{
	Name:     "work",
	Resource: "Work item",
	Items:    func(o *owner.Owner) *owner.Collection[owner.WorkEntry] { return &o.Work },
	Create:   owner.NewWorkEntry,
	Apply:    owner.WorkEntry.Apply,
}

type (
	ProjectEngine = Engine[owner.Project, owner.ProjectFields, owner.ProjectPatch]
	WorkEngine    = Engine[owner.WorkEntry, owner.WorkFields, owner.WorkPatch]
)
