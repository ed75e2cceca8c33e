package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/devfolio/internal/application/usecase/auth"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// CookieSettings controls the session cookie. Production cookies are sent
// cross-site only over TLS.
type CookieSettings struct {
	Production bool
	MaxAge     time.Duration
}

func (s CookieSettings) write(c *gin.Context, value string, maxAge int) {
	if s.Production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", s.Production, true)
}

type AuthHandler struct {
	signupUseCase *authUC.SignupUseCase
	loginUseCase  *authUC.LoginUseCase
	meUseCase     *authUC.MeUseCase
	cookies       CookieSettings
	logger        logger.Logger
}

func NewAuthHandler(signupUC *authUC.SignupUseCase, loginUC *authUC.LoginUseCase, meUC *authUC.MeUseCase, cookies CookieSettings, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		signupUseCase: signupUC,
		loginUseCase:  loginUC,
		meUseCase:     meUC,
		cookies:       cookies,
		logger:        log,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("name, email and password are required", err))
		return
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), authUC.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSession(c, output.AccessToken)
	respondData(c, http.StatusCreated, ToAuthDTO(output.Owner, output.AccessToken))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("email and password are required", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSession(c, output.AccessToken)
	respondData(c, http.StatusOK, ToAuthDTO(output.Owner, output.AccessToken))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.write(c, "", -1)
	respondMessage(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}

	o, err := h.meUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusOK, o)
}

func (h *AuthHandler) setSession(c *gin.Context, token string) {
	h.cookies.write(c, token, int(h.cookies.MaxAge/time.Second))
}
