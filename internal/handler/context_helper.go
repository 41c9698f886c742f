package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/middleware"
	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

func userFromContext(c *gin.Context) *models.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return user
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
