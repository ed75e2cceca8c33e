package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devfolio/internal/domain/owner"
)

type MeUseCase struct {
	ownerRepo owner.Repository
}

func NewMeUseCase(repo owner.Repository) *MeUseCase {
	return &MeUseCase{ownerRepo: repo}
}

func (uc *MeUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*owner.Owner, error) {
	ctx, span := tracer.Start(ctx, "Me")
	defer span.End()

	o, err := uc.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return o, nil
}
