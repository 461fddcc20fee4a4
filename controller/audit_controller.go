// api/controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harvestlink/market/api/audit"
	"github.com/harvestlink/market/api/util"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

const defaultAuditWindow = 24 * time.Hour

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

// RegisterAdminRoutes registers the audit query on an admin group.
func (ac *AuditController) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/audit", ac.QueryLogs)
}

// QueryLogs endpoint. from and to are RFC3339; the default window is the
// last day.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	from, to, err := helper_util.GetTimeRangeParams(c, defaultAuditWindow)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}

	logs, err := ac.auditService.QueryLogs(c.Request.Context(), from, to, c.Query("user_id"), c.Query("resource_id"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}
	if logs == nil {
		logs = []audit.AuditLog{}
	}

	c.JSON(http.StatusOK, logs)
}
