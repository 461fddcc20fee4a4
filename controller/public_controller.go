// api/controller/public_controller.go
package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
)

// PublicController serves the storefront without a session. It never
// honours refresh so anonymous traffic cannot bypass the cache.
type PublicController struct {
	meals service.ICatalogService[model.Meal]
	menus service.ICatalogService[model.Menu]
}

func NewPublicController(meals service.ICatalogService[model.Meal], menus service.ICatalogService[model.Menu]) *PublicController {
	return &PublicController{meals: meals, menus: menus}
}

func (pc *PublicController) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/public")
	{
		public.GET("/meals/:id", pc.GetMeal)
		public.GET("/menus", pc.ListMenus)
	}
}

// GetMeal endpoint. Unpublished meals are reported as missing.
func (pc *PublicController) GetMeal(c *gin.Context) {
	meal, err := pc.meals.Get(c.Request.Context(), c.Param("id"))
	if err == nil && !meal.Published {
		err = fmt.Errorf("meal %s is not published: %w", meal.ID, harvest_errors.ErrNotFound)
	}
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, meal)
}

// ListMenus endpoint
func (pc *PublicController) ListMenus(c *gin.Context) {
	menus, err := pc.menus.List(c.Request.Context(), false)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, menus)
}
