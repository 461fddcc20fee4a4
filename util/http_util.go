// api/util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
)

// Context keys set by the authorization middleware.
const (
	ContextKeyUserID   = "userID"
	ContextKeyIdentity = "identity"
)

// TryAgainMessage is the only detail a caller sees when an upstream fails.
const TryAgainMessage = "Something went wrong, please try again"

// RespondWithError logs err in full and sends only message to the caller.
func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.Int("status", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func GetUserIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetIdentityFromContext returns the caller resolved by the authorization
// middleware, or nil on an unguarded route.
func GetIdentityFromContext(c *gin.Context) *model.UserIdentity {
	identity, _ := c.Get(ContextKeyIdentity)
	id, _ := identity.(*model.UserIdentity)
	return id
}
