// api/errors/catalog_errors.go

package errors

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidMealData       = errors.New("invalid meal data")
	ErrInvalidMenuData       = errors.New("invalid menu data")
	ErrInvalidIngredientData = errors.New("invalid ingredient data")
	ErrUnknownResource       = errors.New("unknown resource")
)
