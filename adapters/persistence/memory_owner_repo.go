package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

// memoryOwnerRepo keeps owners in process memory. It backs local development
// (store.driver=memory) and the HTTP tests, and follows the same versioning
// rules as the database drivers.
type memoryOwnerRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*owner.Owner
	order []uuid.UUID
}

func NewMemoryOwnerRepo() owner.Repository {
	return &memoryOwnerRepo{byID: make(map[uuid.UUID]*owner.Owner)}
}

func (r *memoryOwnerRepo) Create(ctx context.Context, o *owner.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == o.Email {
			return apperror.NewConflict("User", "email", o.Email)
		}
	}
	if _, ok := r.byID[o.ID]; ok {
		return apperror.NewConflict("User", "id", o.ID.String())
	}
	o.Version = 1
	r.byID[o.ID] = o.Clone()
	r.order = append(r.order, o.ID)
	return nil
}

func (r *memoryOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*owner.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("User", id.String())
	}
	return o.Clone(), nil
}

func (r *memoryOwnerRepo) FindByEmail(ctx context.Context, email string) (*owner.Owner, error) {
	email = owner.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.Email == email {
			return o.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("User", email)
}

func (r *memoryOwnerRepo) FindAnyComplete(ctx context.Context) (*owner.Owner, error) {
	all, _ := r.ListComplete(ctx)
	if len(all) == 0 {
		return nil, apperror.NewNotFound("Profile", "profile_complete=true")
	}
	return all[0], nil
}

// ListComplete orders by creation time like the database drivers do.
func (r *memoryOwnerRepo) ListComplete(ctx context.Context) ([]*owner.Owner, error) {
	r.mu.RLock()
	out := make([]*owner.Owner, 0)
	for _, id := range r.order {
		if o := r.byID[id]; o.ProfileComplete {
			out = append(out, o.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryOwnerRepo) Search(ctx context.Context, q owner.SearchQuery) ([]*owner.Owner, int64, error) {
	r.mu.RLock()
	matches := make([]*owner.Owner, 0)
	for _, id := range r.order {
		if o := r.byID[id]; o.ProfileComplete && o.MatchesText(q.Text) {
			matches = append(matches, o.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	total := int64(len(matches))
	if q.Skip >= len(matches) {
		return []*owner.Owner{}, total, nil
	}
	end := len(matches)
	if q.Limit > 0 && q.Skip+q.Limit < end {
		end = q.Skip + q.Limit
	}
	return matches[q.Skip:end], total, nil
}

func (r *memoryOwnerRepo) Save(ctx context.Context, o *owner.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[o.ID]
	if !ok {
		return apperror.NewNotFound("User", o.ID.String())
	}
	if stored.Version != o.Version {
		return owner.ErrVersionConflict
	}
	o.Version++
	r.byID[o.ID] = o.Clone()
	return nil
}
