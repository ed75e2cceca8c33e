package http

import (
	"github.com/gin-gonic/gin"

	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/pkg/logger"
)

type SearchHandler struct {
	searchUseCase *searchUC.SearchUseCase
	logger        logger.Logger
}

func NewSearchHandler(uc *searchUC.SearchUseCase, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: uc,
		logger:        log,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	page, limit := searchUC.PageParams(c.Query("page"), c.Query("limit"))

	output, err := h.searchUseCase.Execute(c.Request.Context(), searchUC.SearchInput{
		Query: c.Query("q"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, output.Owners, output.Pagination)
}
