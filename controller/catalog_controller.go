// api/controller/catalog_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

// CatalogController exposes one catalog resource.
type CatalogController[T any] struct {
	catalog service.ICatalogService[T]
}

func NewCatalogController[T any](catalog service.ICatalogService[T]) *CatalogController[T] {
	return &CatalogController[T]{catalog: catalog}
}

// RegisterRoutes registers the read routes on an authenticated group.
func (cc *CatalogController[T]) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/" + cc.catalog.Resource())
	{
		items.GET("", cc.List)
		items.GET("/:id", cc.Get)
	}
}

// RegisterAdminRoutes registers the write routes on an admin group.
func (cc *CatalogController[T]) RegisterAdminRoutes(r *gin.RouterGroup) {
	items := r.Group("/" + cc.catalog.Resource())
	{
		items.POST("", cc.Create)
		items.PUT("/:id", cc.Update)
		items.DELETE("/:id", cc.Delete)
	}
}

// List endpoint. refresh=true bypasses the cached collection.
func (cc *CatalogController[T]) List(c *gin.Context) {
	items, err := cc.catalog.List(c.Request.Context(), helper_util.GetRefreshParam(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Get endpoint
func (cc *CatalogController[T]) Get(c *gin.Context) {
	item, err := cc.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create endpoint
func (cc *CatalogController[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid "+cc.catalog.Resource()+" data", err)
		return
	}

	created, err := cc.catalog.Create(c.Request.Context(), item, util.GetUserIDFromContext(c))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update endpoint
func (cc *CatalogController[T]) Update(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid "+cc.catalog.Resource()+" data", err)
		return
	}

	updated, err := cc.catalog.Update(c.Request.Context(), c.Param("id"), item, util.GetUserIDFromContext(c))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete endpoint
func (cc *CatalogController[T]) Delete(c *gin.Context) {
	if err := cc.catalog.Delete(c.Request.Context(), c.Param("id"), util.GetUserIDFromContext(c)); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
