// api/controller/route_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

type RouteController struct {
	routeService service.IRouteService
}

func NewRouteController(routeService service.IRouteService) *RouteController {
	return &RouteController{routeService: routeService}
}

func (rc *RouteController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/route", rc.Route)
}

// Route endpoint. An unreachable provider still answers 200 with
// available=false.
func (rc *RouteController) Route(c *gin.Context) {
	from, err := helper_util.ParseCoordinate(c.Query("from"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid from coordinate", err)
		return
	}
	to, err := helper_util.ParseCoordinate(c.Query("to"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid to coordinate", err)
		return
	}

	route, err := rc.routeService.Route(c.Request.Context(), from, to)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}
