package collection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

var tracer = otel.Tracer("collection_usecase")

// Engine adds, updates and removes items of one embedded collection. Every
// operation is scoped to the owner id it is given; callers pass the
// authenticated owner only.
type Engine[T owner.Item, F any, P any] struct {
	kind     Kind[T, F, P]
	writer   *service.OwnerWriter
	notifier *service.Notifier
	logger   logger.Logger
	now      func() time.Time
}

func NewEngine[T owner.Item, F any, P any](kind Kind[T, F, P], writer *service.OwnerWriter, notifier *service.Notifier, log logger.Logger) *Engine[T, F, P] {
	return &Engine[T, F, P]{
		kind:     kind,
		writer:   writer,
		notifier: notifier,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine[T, F, P]) Add(ctx context.Context, ownerID uuid.UUID, fields F) (T, error) {
	ctx, span := e.start(ctx, "Add", ownerID)
	defer span.End()

	var created T
	_, _, err := e.writer.Update(ctx, ownerID, func(o *owner.Owner) (bool, error) {
		item, err := e.kind.Create(fields, e.now())
		if err != nil {
			return false, apperror.NewInvalidInput(err.Error(), err)
		}
		if err := e.kind.Items(o).Append(item); err != nil {
			return false, apperror.NewInternal("append item failed", err)
		}
		created = item
		return true, nil
	})
	if err != nil {
		span.RecordError(err)
		var zero T
		return zero, err
	}

	e.changed(ctx, "added", ownerID, created.ItemID())
	return created, nil
}

func (e *Engine[T, F, P]) Update(ctx context.Context, ownerID, itemID uuid.UUID, patch P) (T, error) {
	ctx, span := e.start(ctx, "Update", ownerID)
	defer span.End()
	span.SetAttributes(attribute.String("item_id", itemID.String()))

	var updated T
	_, _, err := e.writer.Update(ctx, ownerID, func(o *owner.Owner) (bool, error) {
		items := e.kind.Items(o)
		current, ok := items.Get(itemID)
		if !ok {
			return false, apperror.NewNotFound(e.kind.Resource, itemID.String())
		}
		next, err := e.kind.Apply(current, patch, e.now())
		if err != nil {
			return false, apperror.NewInvalidInput(err.Error(), err)
		}
		items.Replace(next)
		updated = next
		return true, nil
	})
	if err != nil {
		span.RecordError(err)
		var zero T
		return zero, err
	}

	e.changed(ctx, "updated", ownerID, itemID)
	return updated, nil
}

// Remove deletes the item if the owner has it. Removing an id that is not
// there succeeds without writing.
func (e *Engine[T, F, P]) Remove(ctx context.Context, ownerID, itemID uuid.UUID) error {
	ctx, span := e.start(ctx, "Remove", ownerID)
	defer span.End()
	span.SetAttributes(attribute.String("item_id", itemID.String()))

	_, removed, err := e.writer.Update(ctx, ownerID, func(o *owner.Owner) (bool, error) {
		return e.kind.Items(o).Remove(itemID), nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	if !removed {
		e.logger.Debug("Remove of absent item ignored",
			zap.String("kind", e.kind.Name), zap.String("owner_id", ownerID.String()), zap.String("item_id", itemID.String()))
		return nil
	}
	e.changed(ctx, "removed", ownerID, itemID)
	return nil
}

func (e *Engine[T, F, P]) start(ctx context.Context, op string, ownerID uuid.UUID) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, e.kind.Name+"."+op)
	span.SetAttributes(attribute.String("owner_id", ownerID.String()))
	return ctx, span
}

func (e *Engine[T, F, P]) changed(ctx context.Context, verb string, ownerID, itemID uuid.UUID) {
	e.notifier.OwnerChanged(ctx, service.OwnerEvent{
		Type:    e.kind.Name + "." + verb,
		OwnerID: ownerID,
		ItemID:  &itemID,
	})
}
