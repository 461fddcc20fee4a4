// api/util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	harvest_errors "github.com/harvestlink/market/api/errors"
	"github.com/harvestlink/market/api/model"
)

// ValidationUtil checks catalog input before it is written upstream.
// Struct tags cover field rules; cross-field rules live in the methods.
type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *ValidationUtil) ValidateIngredient(ingredient model.Ingredient) error {
	if err := v.structErr(ingredient); err != nil {
		return fmt.Errorf("%w: %s", harvest_errors.ErrInvalidIngredientData, err)
	}
	return nil
}

func (v *ValidationUtil) ValidateMeal(meal model.Meal) error {
	if err := v.structErr(meal); err != nil {
		return fmt.Errorf("%w: %s", harvest_errors.ErrInvalidMealData, err)
	}
	if meal.Published && len(meal.IngredientIDs) == 0 {
		return fmt.Errorf("%w: a published meal must list its ingredients", harvest_errors.ErrInvalidMealData)
	}
	if hasDuplicates(meal.IngredientIDs) {
		return fmt.Errorf("%w: duplicate ingredient", harvest_errors.ErrInvalidMealData)
	}
	return nil
}

func (v *ValidationUtil) ValidateMenu(menu model.Menu) error {
	if err := v.structErr(menu); err != nil {
		return fmt.Errorf("%w: %s", harvest_errors.ErrInvalidMenuData, err)
	}
	if menu.AvailableFrom != nil && menu.AvailableTo != nil && !menu.AvailableTo.After(*menu.AvailableFrom) {
		return fmt.Errorf("%w: available_to must be after available_from", harvest_errors.ErrInvalidMenuData)
	}
	if hasDuplicates(menu.MealIDs) {
		return fmt.Errorf("%w: duplicate meal", harvest_errors.ErrInvalidMenuData)
	}
	return nil
}

// ValidateRole accepts only roles an admin may assign.
func (v *ValidationUtil) ValidateRole(role string) error {
	for _, known := range model.KnownRoles {
		if role == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", harvest_errors.ErrInvalidRole, role)
}

// structErr flattens validator output into one readable message.
func (v *ValidationUtil) structErr(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
