package model

// DashboardSummary is what the farmer and producer dashboards render.
type DashboardSummary struct {
	Role        string       `json:"role"`
	UserID      string       `json:"user_id"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Meals       []Meal       `json:"meals,omitempty"`
	Menus       []Menu       `json:"menus,omitempty"`
}
