package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
	"github.com/khoahotran/devfolio/pkg/ratelimit"
)

type RouterDeps struct {
	Logger      logger.Logger
	Verifier    *auth.Verifier
	AuthLimiter *ratelimit.KeyedRateLimiter

	Auth     *AuthHandler
	Profile  *ProfileHandler
	Projects *ProjectHandler
	Work     *WorkHandler
	Search   *SearchHandler
	RSS      *RSSHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), ErrorMiddleware(d.Logger))

	requireAuth := RequireAuth(d.Verifier, d.Logger)
	optionalAuth := OptionalAuth(d.Verifier, d.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "OK"})
		})

		authGroup := api.Group("/auth")
		{
			limited := authGroup.Group("")
			if d.AuthLimiter != nil {
				limited.Use(RateLimit(d.AuthLimiter, d.Logger))
			}
			limited.POST("/signup", d.Auth.Signup)
			limited.POST("/login", d.Auth.Login)

			authGroup.POST("/logout", d.Auth.Logout)
			authGroup.GET("/me", requireAuth, d.Auth.Me)
		}

		api.GET("/profile", optionalAuth, d.Profile.GetProfile)
		api.POST("/profile", requireAuth, d.Profile.CompleteProfile)

		projects := api.Group("/projects")
		{
			projects.GET("", d.Projects.ListProjects)
			projects.GET("/rss", d.RSS.ProjectsRSS)
			projects.POST("", requireAuth, d.Projects.CreateProject)
			projects.PUT("/:id", requireAuth, d.Projects.UpdateProject)
			projects.DELETE("/:id", requireAuth, d.Projects.DeleteProject)
		}

		work := api.Group("/work", requireAuth)
		{
			work.POST("", d.Work.CreateWork)
			work.PUT("/:id", d.Work.UpdateWork)
			work.DELETE("/:id", d.Work.DeleteWork)
		}

		api.GET("/search", d.Search.Search)
	}

	return router
}
