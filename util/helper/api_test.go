package helper_util_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/model"
	helper_util "github.com/harvestlink/market/api/util/helper"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseCoordinate(t *testing.T) {
	coord, err := helper_util.ParseCoordinate("52.52, 13.405")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{Lat: 52.52, Lng: 13.405}, coord)

	for _, bad := range []string{"", "52.52", "north,13", "91,0", "0,181", "1,2,3"} {
		_, err := helper_util.ParseCoordinate(bad)
		assert.ErrorIs(t, err, harvest_errors.ErrInvalidCoordinates, bad)
	}
}

func TestGetRefreshParam(t *testing.T) {
	assert.True(t, helper_util.GetRefreshParam(contextFor("/meals?refresh=true")))
	assert.True(t, helper_util.GetRefreshParam(contextFor("/meals?refresh=1")))
	assert.False(t, helper_util.GetRefreshParam(contextFor("/meals")))
	assert.False(t, helper_util.GetRefreshParam(contextFor("/meals?refresh=yes-please")))
}

func TestGetPaginationParams(t *testing.T) {
	limit, offset, err := helper_util.GetPaginationParams(contextFor("/users?limit=5&offset=10"))
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)

	_, _, err = helper_util.GetPaginationParams(contextFor("/users?limit=0"))
	assert.Error(t, err)
	_, _, err = helper_util.GetPaginationParams(contextFor("/users?limit=abc"))
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, helper_util.Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, helper_util.Paginate(items, 10, 4))
	assert.Equal(t, []int{}, helper_util.Paginate(items, 10, 9))
}
