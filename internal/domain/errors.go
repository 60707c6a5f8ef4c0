package domain

import "errors"

var (
	// ErrInvalidCommandFormat is returned when a message matches none of the known command shapes
	ErrInvalidCommandFormat = errors.New("invalid command format")

	// ErrNegativeAmount is returned when an expense amount is below zero
	ErrNegativeAmount = errors.New("expense amount must not be negative")

	// ErrMissingCategory is returned when an expense category is blank
	ErrMissingCategory = errors.New("expense must have a category")
)
