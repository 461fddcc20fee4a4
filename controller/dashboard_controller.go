// api/controller/dashboard_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

// DashboardController serves per-role summaries. Each route must sit
// behind the matching role check.
type DashboardController struct {
	dashboardService service.IDashboardService
}

func NewDashboardController(dashboardService service.IDashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Farmer endpoint
func (dc *DashboardController) Farmer(c *gin.Context) {
	summary, err := dc.dashboardService.Farmer(c.Request.Context(), util.GetUserIDFromContext(c), helper_util.GetRefreshParam(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Producer endpoint
func (dc *DashboardController) Producer(c *gin.Context) {
	summary, err := dc.dashboardService.Producer(c.Request.Context(), util.GetUserIDFromContext(c), helper_util.GetRefreshParam(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
