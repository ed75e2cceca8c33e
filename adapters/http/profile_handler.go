package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/devfolio/internal/application/usecase/profile"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

// GetProfile runs behind OptionalAuth.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	var input profileUC.GetProfileInput
	if ownerID, ok := GetOwnerIDFromGinContext(c); ok {
		input.OwnerID = &ownerID
	}

	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusOK, output.Profile)
}

func (h *ProfileHandler) CompleteProfile(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}

	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteCompleteProfile(c.Request.Context(), profileUC.CompleteProfileInput{
		OwnerID:   ownerID,
		Name:      req.Name,
		Education: req.Education,
		Skills:    req.Skills,
		Links:     req.Links,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusOK, output.Profile)
}
