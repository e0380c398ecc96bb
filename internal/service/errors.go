package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateName is returned when a category name is already taken
	ErrDuplicateName = errors.New("category name already exists")

	// ErrDuplicateCode is returned when a product code is claimed by another product
	ErrDuplicateCode = errors.New("product code already exists")

	// ErrCategoryInUse is returned when deleting a category that products still reference
	ErrCategoryInUse = errors.New("category has dependent products")

	// ErrEmptySelection is returned when an offer is loaded without any category selected
	ErrEmptySelection = errors.New("no categories selected")

	// ErrLineNotFound is returned when an offer line ID does not exist in the session
	ErrLineNotFound = errors.New("offer line not found")
)
