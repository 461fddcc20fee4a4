package helper_util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/model"
)

const maxPageSize = 100

func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, err
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 || limit > maxPageSize || offset < 0 {
		return 0, 0, fmt.Errorf("limit must be 1..%d and offset non-negative", maxPageSize)
	}
	return limit, offset, nil
}

// Paginate returns the [offset, offset+limit) window of items.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// GetRefreshParam reports whether the caller asked to bypass the cache.
func GetRefreshParam(c *gin.Context) bool {
	refresh, err := strconv.ParseBool(c.Query("refresh"))
	return err == nil && refresh
}

// ParseCoordinate parses "lat,lng".
func ParseCoordinate(s string) (model.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Coordinate{}, fmt.Errorf("%w: %q is not lat,lng", harvest_errors.ErrInvalidCoordinates, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: latitude %q", harvest_errors.ErrInvalidCoordinates, parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: longitude %q", harvest_errors.ErrInvalidCoordinates, parts[1])
	}
	coord := model.Coordinate{Lat: lat, Lng: lng}
	if !coord.Valid() {
		return model.Coordinate{}, fmt.Errorf("%w: %q out of range", harvest_errors.ErrInvalidCoordinates, s)
	}
	return coord, nil
}
