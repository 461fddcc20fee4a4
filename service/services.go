// api/service/services.go
package service

import (
	"github.com/harvestlink/market/api/cache"
	"github.com/harvestlink/market/api/dao"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/routing"
	"github.com/harvestlink/market/api/util"
)

type Services struct {
	Ingredients *CatalogService[model.Ingredient]
	Meals       *CatalogService[model.Meal]
	Menus       *CatalogService[model.Menu]
	Profiles    *CatalogService[model.Profile]
	User        IUserService
	Dashboard   IDashboardService
	Route       IRouteService
}

// InitializeServices builds one cache per catalog resource. cacheOpts apply
// to all of them.
func InitializeServices(
	data dao.DataService,
	assigner RoleAssigner,
	resolver RoleResolver,
	provider routing.Provider,
	routeCache RouteCache,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
	cacheOpts ...cache.Option,
) *Services {
	named := func(name string) []cache.Option {
		return append([]cache.Option{cache.WithName(name)}, cacheOpts...)
	}

	ingredients := NewCatalogService(model.ResourceIngredients, data,
		cache.New[[]model.Ingredient](named(model.ResourceIngredients)...), validationUtil.ValidateIngredient, eventBus)
	meals := NewCatalogService(model.ResourceMeals, data,
		cache.New[[]model.Meal](named(model.ResourceMeals)...), validationUtil.ValidateMeal, eventBus)
	menus := NewCatalogService(model.ResourceMenus, data,
		cache.New[[]model.Menu](named(model.ResourceMenus)...), validationUtil.ValidateMenu, eventBus)
	profiles := NewCatalogService[model.Profile](model.ResourceProfiles, data,
		cache.New[[]model.Profile](named(model.ResourceProfiles)...), nil, eventBus)

	return &Services{
		Ingredients: ingredients,
		Meals:       meals,
		Menus:       menus,
		Profiles:    profiles,
		User:        NewUserService(profiles, assigner, resolver, validationUtil, eventBus),
		Dashboard:   NewDashboardService(ingredients, meals, menus),
		Route:       NewRouteService(provider, routeCache),
	}
}
