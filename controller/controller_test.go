package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harvestlink/market/api/cache"
	"github.com/harvestlink/market/api/controller"
	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/service"
	test_mock "github.com/harvestlink/market/api/test/mock"
	"github.com/harvestlink/market/api/util"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger("")
}

// asUser stands in for the authorization middleware.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(util.ContextKeyIdentity, &model.UserIdentity{ID: id})
		c.Set(util.ContextKeyUserID, id)
		c.Next()
	}
}

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newMealsRouter(data *test_mock.MockDataService) *gin.Engine {
	meals := service.NewCatalogService(model.ResourceMeals, data,
		cache.New[[]model.Meal](cache.WithName("meals-controller-test")),
		util.NewValidationUtil().ValidateMeal, nil)
	mc := controller.NewCatalogController[model.Meal](meals)

	router := gin.New()
	api := router.Group("/", asUser("admin-1"))
	mc.RegisterRoutes(api)
	mc.RegisterAdminRoutes(api.Group("/admin"))
	return router
}

func TestCatalogController(t *testing.T) {
	t.Run("List_Success", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("List", mock.Anything, model.ResourceMeals).
			Return([]model.Record{{"id": "m1", "name": "Soup", "producer_id": "p1"}}, nil).Once()
		router := newMealsRouter(data)

		w := serve(router, http.MethodGet, "/meals", "")
		require.Equal(t, http.StatusOK, w.Code)
		var meals []model.Meal
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meals))
		require.Len(t, meals, 1)
		assert.Equal(t, "Soup", meals[0].Name)

		w = serve(router, http.MethodGet, "/meals", "")
		assert.Equal(t, http.StatusOK, w.Code)
		data.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("List_Refresh", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("List", mock.Anything, model.ResourceMeals).Return([]model.Record{}, nil)
		router := newMealsRouter(data)

		w := serve(router, http.MethodGet, "/meals", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = serve(router, http.MethodGet, "/meals?refresh=true", "")
		assert.Equal(t, http.StatusOK, w.Code)
		data.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("List_UpstreamFailure", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("List", mock.Anything, model.ResourceMeals).
			Return(nil, harvest_errors.ErrUpstreamUnavailable)
		router := newMealsRouter(data)

		w := serve(router, http.MethodGet, "/meals", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), util.TryAgainMessage)
		assert.NotContains(t, w.Body.String(), harvest_errors.ErrUpstreamUnavailable.Error())
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("GetByID", mock.Anything, model.ResourceMeals, "nope").Return(nil, harvest_errors.ErrNotFound)
		router := newMealsRouter(data)

		w := serve(router, http.MethodGet, "/meals/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create_Success", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("Insert", mock.Anything, model.ResourceMeals, mock.Anything).
			Return(model.Record{"id": "m9", "name": "Pie", "producer_id": "p1"}, nil)
		router := newMealsRouter(data)

		w := serve(router, http.MethodPost, "/admin/meals", `{"name":"Pie","producer_id":"p1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"m9"`)
	})

	t.Run("Create_InvalidData", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		router := newMealsRouter(data)

		w := serve(router, http.MethodPost, "/admin/meals", `{"producer_id":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = serve(router, http.MethodPost, "/admin/meals", `{not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		data.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("GetByID", mock.Anything, model.ResourceMeals, "gone").Return(nil, harvest_errors.ErrNotFound)
		router := newMealsRouter(data)

		w := serve(router, http.MethodPut, "/admin/meals/gone", `{"name":"Pie","producer_id":"p1"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete_Success", func(t *testing.T) {
		data := new(test_mock.MockDataService)
		data.On("Delete", mock.Anything, model.ResourceMeals, "m1").Return(nil)
		router := newMealsRouter(data)

		w := serve(router, http.MethodDelete, "/admin/meals/m1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPublicController(t *testing.T) {
	data := new(test_mock.MockDataService)
	data.On("GetByID", mock.Anything, model.ResourceMeals, "m1").
		Return(model.Record{"id": "m1", "name": "Soup", "published": true}, nil)
	data.On("GetByID", mock.Anything, model.ResourceMeals, "draft").
		Return(model.Record{"id": "draft", "name": "Secret", "published": false}, nil)
	data.On("List", mock.Anything, model.ResourceMenus).
		Return([]model.Record{{"id": "w1", "name": "Week 1"}}, nil).Once()

	meals := service.NewCatalogService[model.Meal](model.ResourceMeals, data, cache.New[[]model.Meal](), nil, nil)
	menus := service.NewCatalogService[model.Menu](model.ResourceMenus, data, cache.New[[]model.Menu](), nil, nil)
	router := gin.New()
	controller.NewPublicController(meals, menus).RegisterRoutes(router.Group("/"))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/public/meals/m1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/public/meals/draft", "").Code)

	w := serve(router, http.MethodGet, "/public/menus", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Week 1")

	// refresh is ignored on public routes
	serve(router, http.MethodGet, "/public/menus?refresh=true", "")
	data.AssertNumberOfCalls(t, "List", 1)
}

func TestRouteController(t *testing.T) {
	provider := new(test_mock.MockRoutingProvider)
	provider.On("Route", mock.Anything, mock.Anything, mock.Anything).Return(nil, harvest_errors.ErrRouteUnavailable)
	router := gin.New()
	controller.NewRouteController(service.NewRouteService(provider, nil)).RegisterRoutes(router.Group("/", asUser("u1")))

	w := serve(router, http.MethodGet, "/route?from=52.52,13.405&to=52.53,13.415", "")
	require.Equal(t, http.StatusOK, w.Code)
	var route model.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
	assert.False(t, route.Available)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/route?from=abc&to=52.53,13.415", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/route?from=52.52,13.405", "").Code)
	provider.AssertNumberOfCalls(t, "Route", 1)
}

func TestUserController(t *testing.T) {
	data := new(test_mock.MockDataService)
	data.On("List", mock.Anything, model.ResourceProfiles).Return([]model.Record{
		{"id": "u1"}, {"id": "u2"}, {"id": "u3"},
	}, nil)
	roles := new(test_mock.MockRoleAssigner)
	roles.On("RolesOf", mock.Anything, "admin-1").Return([]string{model.RoleAdmin}, nil)
	roles.On("AssignRole", mock.Anything, "u2", model.RoleFarmer).Return(nil)

	resolver := &staticResolver{store: roles}
	profiles := service.NewCatalogService[model.Profile](model.ResourceProfiles, data, cache.New[[]model.Profile](), nil, nil)
	uc := controller.NewUserController(service.NewUserService(profiles, roles, resolver, util.NewValidationUtil(), nil))

	router := gin.New()
	api := router.Group("/", asUser("admin-1"))
	uc.RegisterRoutes(api)
	uc.RegisterAdminRoutes(api.Group("/admin"))

	w := serve(router, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"admin-1","roles":["admin"]}`, w.Body.String())

	w = serve(router, http.MethodGet, "/admin/users?limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Users []model.Profile `json:"users"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "u2", page.Users[0].ID)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPut, "/admin/users/u2/roles/farmer", "").Code)
	assert.Equal(t, []string{"u2"}, resolver.invalidated)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPut, "/admin/users/u2/roles/root", "").Code)
}

type staticResolver struct {
	store       *test_mock.MockRoleAssigner
	invalidated []string
}

func (r *staticResolver) RolesOf(ctx context.Context, userID string) ([]string, error) {
	return r.store.RolesOf(ctx, userID)
}

func (r *staticResolver) InvalidateIdentity(userID string) {
	r.invalidated = append(r.invalidated, userID)
}
