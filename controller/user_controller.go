// api/controller/user_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/service"
	"github.com/harvestlink/market/api/util"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

// RegisterRoutes registers the caller's own routes on an authenticated group.
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", uc.Me)
}

// RegisterAdminRoutes registers user management on an admin group.
func (uc *UserController) RegisterAdminRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", uc.ListUsers)
		users.PUT("/:id/roles/:role", uc.AssignRole)
		users.DELETE("/:id/roles/:role", uc.RevokeRole)
	}
}

// Me endpoint
func (uc *UserController) Me(c *gin.Context) {
	identity := util.GetIdentityFromContext(c)
	if identity == nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", harvest_errors.ErrUnauthenticated)
		return
	}

	me, err := uc.userService.Me(c.Request.Context(), *identity)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, me)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsers(c.Request.Context(), helper_util.GetRefreshParam(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  helper_util.Paginate(users, limit, offset),
		"total":  len(users),
		"limit":  limit,
		"offset": offset,
	})
}

// AssignRole endpoint
func (uc *UserController) AssignRole(c *gin.Context) {
	if err := uc.userService.AssignRole(c.Request.Context(), c.Param("id"), c.Param("role"), util.GetUserIDFromContext(c)); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RevokeRole endpoint
func (uc *UserController) RevokeRole(c *gin.Context) {
	if err := uc.userService.RevokeRole(c.Request.Context(), c.Param("id"), c.Param("role"), util.GetUserIDFromContext(c)); err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
