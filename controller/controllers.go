// api/controller/controllers.go
package controller

import (
	"github.com/harvestlink/market/api/audit"
	"github.com/harvestlink/market/api/model"
	"github.com/harvestlink/market/api/service"
)

type Controllers struct {
	Ingredients *CatalogController[model.Ingredient]
	Meals       *CatalogController[model.Meal]
	Menus       *CatalogController[model.Menu]
	Public      *PublicController
	User        *UserController
	Dashboard   *DashboardController
	Route       *RouteController
	Audit       *AuditController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Ingredients: NewCatalogController[model.Ingredient](services.Ingredients),
		Meals:       NewCatalogController[model.Meal](services.Meals),
		Menus:       NewCatalogController[model.Menu](services.Menus),
		Public:      NewPublicController(services.Meals, services.Menus),
		User:        NewUserController(services.User),
		Dashboard:   NewDashboardController(services.Dashboard),
		Route:       NewRouteController(services.Route),
		Audit:       NewAuditController(auditService),
	}
}
