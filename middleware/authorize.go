// api/middleware/authorize.go

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harvestlink/market/api/auth"
	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/util"
)

// Authorize lets the request through only if the gate allows it for
// requiredRole. An empty requiredRole admits any authenticated caller.
// Nothing after this middleware runs on a denial.
func Authorize(gate *auth.Gate, eventBus *util.EventBus, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Authorize(c.Request, requiredRole)
		if decision.Authorized {
			c.Set(util.ContextKeyIdentity, decision.Principal)
			c.Set(util.ContextKeyUserID, decision.Principal.ID)
			c.Next()
			return
		}

		var userID string
		if decision.Principal != nil {
			userID = decision.Principal.ID
		}
		logger.Warn("Request denied",
			zap.String("path", c.Request.URL.Path),
			zap.String("userID", userID),
			zap.String("requiredRole", requiredRole),
			zap.String("reason", string(decision.Reason)),
			zap.Error(decision.Err))

		if eventBus != nil {
			eventBus.Publish(c.Request.Context(), model.EventAccessDenied, model.DenialEvent{
				UserID:       userID,
				Path:         c.FullPath(),
				RequiredRole: requiredRole,
				Reason:       decision.Reason,
			})
		}

		switch decision.Reason {
		case model.DenyUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": harvest_errors.ErrUnauthenticated.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": harvest_errors.ErrForbidden.Error()})
		}
	}
}
