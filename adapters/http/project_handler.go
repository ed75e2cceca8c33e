package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/internal/application/usecase/collection"
	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type ProjectHandler struct {
	projects            *collection.ProjectEngine
	listProjectsUseCase *searchUC.ListProjectsUseCase
	logger              logger.Logger
}

func NewProjectHandler(projects *collection.ProjectEngine, listUC *searchUC.ListProjectsUseCase, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:            projects,
		listProjectsUseCase: listUC,
		logger:              log,
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.projects.Add(c.Request.Context(), ownerID, req.fields())
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusCreated, p)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.projects.Update(c.Request.Context(), ownerID, projectID, req.patch())
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.projects.Remove(c.Request.Context(), ownerID, projectID); err != nil {
		c.Error(err)
		return
	}
	respondMessage(c, "Project removed")
}

// ListProjects is the public cross-profile listing.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, limit := searchUC.PageParams(c.Query("page"), c.Query("limit"))

	output, err := h.listProjectsUseCase.Execute(c.Request.Context(), searchUC.ListProjectsInput{
		Skill: c.Query("skill"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, output.Projects, output.Pagination)
}
