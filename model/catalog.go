package model

import "time"

// Resource names as exposed by the hosted data service.
const (
	ResourceMeals       = "meals"
	ResourceMenus       = "menus"
	ResourceIngredients = "ingredients"
	ResourceProfiles    = "profiles"
)

type Ingredient struct {
	ID           string    `json:"id" mapstructure:"id"`
	Name         string    `json:"name" mapstructure:"name" validate:"required,max=120"`
	Unit         string    `json:"unit" mapstructure:"unit" validate:"required,oneof=kg g l ml piece bunch"`
	PricePerUnit float64   `json:"price_per_unit" mapstructure:"price_per_unit" validate:"gte=0"`
	FarmerID     string    `json:"farmer_id" mapstructure:"farmer_id" validate:"required"`
	Available    bool      `json:"available" mapstructure:"available"`
	CreatedAt    time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" mapstructure:"updated_at"`
}

type Meal struct {
	ID            string    `json:"id" mapstructure:"id"`
	Name          string    `json:"name" mapstructure:"name" validate:"required,max=120"`
	Description   string    `json:"description" mapstructure:"description" validate:"max=2000"`
	Price         float64   `json:"price" mapstructure:"price" validate:"gte=0"`
	IngredientIDs []string  `json:"ingredient_ids" mapstructure:"ingredient_ids"`
	ProducerID    string    `json:"producer_id" mapstructure:"producer_id" validate:"required"`
	Published     bool      `json:"published" mapstructure:"published"`
	CreatedAt     time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" mapstructure:"updated_at"`
}

type Menu struct {
	ID            string     `json:"id" mapstructure:"id"`
	Name          string     `json:"name" mapstructure:"name" validate:"required,max=120"`
	MealIDs       []string   `json:"meal_ids" mapstructure:"meal_ids" validate:"required,min=1"`
	ProducerID    string     `json:"producer_id" mapstructure:"producer_id" validate:"required"`
	AvailableFrom *time.Time `json:"available_from,omitempty" mapstructure:"available_from"`
	AvailableTo   *time.Time `json:"available_to,omitempty" mapstructure:"available_to"`
	CreatedAt     time.Time  `json:"created_at,omitempty" mapstructure:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at,omitempty" mapstructure:"updated_at"`
}
