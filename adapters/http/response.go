package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	searchUC "github.com/khoahotran/devfolio/internal/application/usecase/search"
	"github.com/khoahotran/devfolio/pkg/apperror"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondPage(c *gin.Context, data any, p searchUC.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

func respondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// requireOwnerID reads the id RequireAuth stored. Its absence is a routing
// bug, not a client error.
func requireOwnerID(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewInternal("ownerID not found in context", nil))
	}
	return ownerID, ok
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}
