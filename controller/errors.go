// api/controller/errors.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/util"
)

// respondWithServiceError maps service errors to a status. Only client
// mistakes are echoed back; everything else gets the generic message.
func respondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, harvest_errors.ErrNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, harvest_errors.ErrInvalidMealData),
		errors.Is(err, harvest_errors.ErrInvalidMenuData),
		errors.Is(err, harvest_errors.ErrInvalidIngredientData),
		errors.Is(err, harvest_errors.ErrInvalidRole),
		errors.Is(err, harvest_errors.ErrInvalidCoordinates):
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, harvest_errors.ErrUnknownResource):
		util.RespondWithError(c, http.StatusMethodNotAllowed, "Resource is read-only", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, util.TryAgainMessage, err)
	}
}
