// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

// actorFromContext collects the authenticated identity once per request so
// services receive it as an explicit parameter.
func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{
		Name:      c.GetString("user_name"),
		Email:     c.GetString("user_email"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if id, err := uuid.Parse(userIDStr); err == nil {
			actor.ID = id
		}
	}
	return actor
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
