package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
	"go.uber.org/zap"
)

const DefaultWriteAttempts = 3

// MutateFunc changes a freshly loaded owner in place. It reports whether
// anything changed; an unchanged owner is not saved.
type MutateFunc func(o *owner.Owner) (bool, error)

// OwnerWriter performs whole-document read-modify-write cycles. A save that
// loses the version race reloads and reapplies the mutation, up to
// maxAttempts times.
type OwnerWriter struct {
	repo        owner.Repository
	logger      logger.Logger
	maxAttempts int
}

func NewOwnerWriter(repo owner.Repository, log logger.Logger, maxAttempts int) *OwnerWriter {
	if maxAttempts < 1 {
		maxAttempts = DefaultWriteAttempts
	}
	return &OwnerWriter{repo: repo, logger: log, maxAttempts: maxAttempts}
}

// Update returns the owner as saved (or as loaded when nothing changed) and
// whether a save happened.
func (w *OwnerWriter) Update(ctx context.Context, ownerID uuid.UUID, fn MutateFunc) (*owner.Owner, bool, error) {
	for attempt := 1; ; attempt++ {
		o, err := w.repo.FindByID(ctx, ownerID)
		if err != nil {
			return nil, false, err
		}

		changed, err := fn(o)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return o, false, nil
		}

		err = w.repo.Save(ctx, o)
		if err == nil {
			return o, true, nil
		}
		if !errors.Is(err, owner.ErrVersionConflict) {
			return nil, false, err
		}

		w.logger.Warn("Owner changed during write, retrying",
			zap.String("owner_id", ownerID.String()), zap.Int("attempt", attempt))
		if attempt >= w.maxAttempts {
			return nil, false, apperror.NewConcurrentUpdate("User", ownerID.String())
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
	}
}
