package routes

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"oficios-server/models"
	"oficios-server/permissions"
)

// currentActor builds the authorization actor from the identity the auth
// middleware stored on the context.
func currentActor(c *gin.Context) permissions.Actor {
	return permissions.Actor{
		ID:   c.GetUint("user_id"),
		Role: models.ParseRole(c.GetString("role")),
	}
}

// parseID parses a numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
