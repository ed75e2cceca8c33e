package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
)

var tracer = otel.Tracer("auth_usecase")

const invalidCredentials = "Invalid email or password"

type LoginUseCase struct {
	ownerRepo owner.Repository
	jwtSvc    *auth.JWTService
	logger    logger.Logger
}

func NewLoginUseCase(repo owner.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		ownerRepo: repo,
		jwtSvc:    jwtSvc,
		logger:    log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput is returned by signup and login alike.
type AuthOutput struct {
	Owner       *owner.Owner
	AccessToken string
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if err := uc.jwtSvc.Ready(); err != nil {
		uc.logger.Error("Cannot issue tokens", err)
		return nil, apperror.NewConfiguration("jwt secret missing", err)
	}

	o, err := uc.ownerRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		err = apperror.NewUnauthorized(invalidCredentials, nil)
		span.RecordError(err)
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, o.PasswordHash) {
		err := apperror.NewUnauthorized(invalidCredentials, nil)
		span.RecordError(err)
		return nil, err
	}

	token, err := issueToken(uc.jwtSvc, uc.logger, o)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("owner_id", o.ID.String()))
	return &AuthOutput{Owner: o, AccessToken: token}, nil
}

func issueToken(jwtSvc *auth.JWTService, log logger.Logger, o *owner.Owner) (string, error) {
	token, err := jwtSvc.GenerateToken(o.ID)
	if errors.Is(err, auth.ErrSigningKeyMissing) {
		return "", apperror.NewConfiguration("jwt secret missing", err)
	}
	if err != nil {
		log.Error("Failed to generate token", err, zap.String("owner_id", o.ID.String()))
		return "", apperror.NewInternal("failed to generate token", err)
	}
	return token, nil
}
