package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devfolio/internal/application/usecase/collection"
	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type WorkHandler struct {
	work   *collection.WorkEngine
	logger logger.Logger
}

func NewWorkHandler(work *collection.WorkEngine, log logger.Logger) *WorkHandler {
	return &WorkHandler{work: work, logger: log}
}

func (h *WorkHandler) CreateWork(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	var req workRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	w, err := h.work.Add(c.Request.Context(), ownerID, req.fields())
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusCreated, w)
}

func (h *WorkHandler) UpdateWork(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	workID, ok := pathID(c)
	if !ok {
		return
	}
	var req workRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	w, err := h.work.Update(c.Request.Context(), ownerID, workID, req.patch())
	if err != nil {
		c.Error(err)
		return
	}
	respondData(c, http.StatusOK, w)
}

func (h *WorkHandler) DeleteWork(c *gin.Context) {
	ownerID, ok := requireOwnerID(c)
	if !ok {
		return
	}
	workID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.work.Remove(c.Request.Context(), ownerID, workID); err != nil {
		c.Error(err)
		return
	}
	respondMessage(c, "Work item removed")
}
