// api/service/dashboard_service.go

package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/harvestlink/market/api/model"
)

type IDashboardService interface {
	Farmer(ctx context.Context, userID string, forceRefresh bool) (*model.DashboardSummary, error)
	Producer(ctx context.Context, userID string, forceRefresh bool) (*model.DashboardSummary, error)
}

// DashboardService builds per-role summaries from the cached catalogs.
type DashboardService struct {
	ingredients ICatalogService[model.Ingredient]
	meals       ICatalogService[model.Meal]
	menus       ICatalogService[model.Menu]
}

var _ IDashboardService = &DashboardService{}

func NewDashboardService(ingredients ICatalogService[model.Ingredient], meals ICatalogService[model.Meal], menus ICatalogService[model.Menu]) *DashboardService {
	return &DashboardService{ingredients: ingredients, meals: meals, menus: menus}
}

// Farmer lists the farmer's ingredients and every meal that uses one.
func (s *DashboardService) Farmer(ctx context.Context, userID string, forceRefresh bool) (*model.DashboardSummary, error) {
	var ingredients []model.Ingredient
	var meals []model.Meal

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		ingredients, err = s.ingredients.List(ctx, forceRefresh)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		meals, err = s.meals.List(ctx, forceRefresh)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{Role: model.RoleFarmer, UserID: userID}
	own := make(map[string]struct{})
	for _, ingredient := range ingredients {
		if ingredient.FarmerID == userID {
			summary.Ingredients = append(summary.Ingredients, ingredient)
			own[ingredient.ID] = struct{}{}
		}
	}
	for _, meal := range meals {
		for _, id := range meal.IngredientIDs {
			if _, ok := own[id]; ok {
				summary.Meals = append(summary.Meals, meal)
				break
			}
		}
	}
	return summary, nil
}

// Producer lists the producer's meals and menus.
func (s *DashboardService) Producer(ctx context.Context, userID string, forceRefresh bool) (*model.DashboardSummary, error) {
	var meals []model.Meal
	var menus []model.Menu

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		meals, err = s.meals.List(ctx, forceRefresh)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		menus, err = s.menus.List(ctx, forceRefresh)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{Role: model.RoleProducer, UserID: userID}
	for _, meal := range meals {
		if meal.ProducerID == userID {
			summary.Meals = append(summary.Meals, meal)
		}
	}
	for _, menu := range menus {
		if menu.ProducerID == userID {
			summary.Menus = append(summary.Menus, menu)
		}
	}
	return summary, nil
}
