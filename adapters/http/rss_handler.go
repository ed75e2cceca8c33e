package http

import (
	"github.com/gin-gonic/gin"

	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type RSSHandler struct {
	feedUseCase *searchUC.FeedUseCase
	logger      logger.Logger
}

func NewRSSHandler(uc *searchUC.FeedUseCase, log logger.Logger) *RSSHandler {
	return &RSSHandler{
		feedUseCase: uc,
		logger:      log,
	}
}

func (h *RSSHandler) ProjectsRSS(c *gin.Context) {
	feed, err := h.feedUseCase.Execute(c.Request.Context(), c.Query("skill"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
