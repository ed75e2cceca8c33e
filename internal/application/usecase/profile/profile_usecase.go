package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	ownerRepo owner.Repository
	writer    *service.OwnerWriter
	notifier  *service.Notifier
	logger    logger.Logger
}

func NewProfileUseCase(repo owner.Repository, writer *service.OwnerWriter, notifier *service.Notifier, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		ownerRepo: repo,
		writer:    writer,
		notifier:  notifier,
		logger:    log,
	}
}

type GetProfileInput struct {
	// OwnerID is nil for anonymous callers.
	OwnerID *uuid.UUID
}

type GetProfileOutput struct {
	Profile *owner.Owner
	// Public is true when the caller's own profile was not available and a
	// completed profile was served instead.
	Public bool
}

// ExecuteGetProfile returns the caller's own profile when they are known,
// otherwise the earliest completed profile in the store.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	if input.OwnerID != nil {
		o, err := uc.ownerRepo.FindByID(ctx, *input.OwnerID)
		if err == nil {
			return &GetProfileOutput{Profile: o}, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			span.RecordError(err)
			return nil, err
		}
		uc.logger.Debug("Authenticated owner not found, serving public profile",
			zap.String("owner_id", input.OwnerID.String()))
	}

	o, err := uc.ownerRepo.FindAnyComplete(ctx)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewAppError(apperror.ErrNotFound, "No profiles found", "no owner has completed a profile", nil)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("owner_id", o.ID.String()))
	return &GetProfileOutput{Profile: o, Public: true}, nil
}

type CompleteProfileInput struct {
	OwnerID   uuid.UUID
	Name      *string
	Education *string
	Skills    *[]string
	Links     *owner.Links
}

type CompleteProfileOutput struct {
	Profile *owner.Owner
}

func (uc *ProfileUseCase) ExecuteCompleteProfile(ctx context.Context, input CompleteProfileInput) (*CompleteProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "CompleteProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", input.OwnerID.String()))

	patch := owner.ProfilePatch{
		Name:      input.Name,
		Education: input.Education,
		Skills:    input.Skills,
		Links:     input.Links,
	}
	o, _, err := uc.writer.Update(ctx, input.OwnerID, func(o *owner.Owner) (bool, error) {
		if err := o.CompleteProfile(patch, time.Now().UTC()); err != nil {
			return false, apperror.NewInvalidInput(err.Error(), err)
		}
		return true, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.notifier.OwnerChanged(ctx, service.OwnerEvent{Type: service.EventOwnerProfileComplete, OwnerID: o.ID})
	return &CompleteProfileOutput{Profile: o}, nil
}
