package auth

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// bcrypt ignores everything past this length.
const maxPasswordBytes = 72

type SignupUseCase struct {
	ownerRepo owner.Repository
	jwtSvc    *auth.JWTService
	notifier  *service.Notifier
	logger    logger.Logger
}

func NewSignupUseCase(repo owner.Repository, jwtSvc *auth.JWTService, notifier *service.Notifier, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		ownerRepo: repo,
		jwtSvc:    jwtSvc,
		notifier:  notifier,
		logger:    log,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*AuthOutput, error) {
	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperror.NewInvalidInput("name, email and password are required", nil)
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, apperror.NewInvalidInput("password must be at most 72 bytes", nil)
	}
	// Checked up front so that no account is created without a token.
	if err := uc.jwtSvc.Ready(); err != nil {
		uc.logger.Error("Cannot issue tokens", err)
		return nil, apperror.NewConfiguration("jwt secret missing", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("hash password failed", err)
	}

	o := owner.New(input.Email, strings.TrimSpace(input.Name), hash, time.Now().UTC())
	if err := uc.ownerRepo.Create(ctx, o); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("owner_id", o.ID.String()))

	token, err := issueToken(uc.jwtSvc, uc.logger, o)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.notifier.OwnerChanged(ctx, service.OwnerEvent{Type: service.EventOwnerSignedUp, OwnerID: o.ID})
	return &AuthOutput{Owner: o, AccessToken: token}, nil
}
