package domain

import "errors"

// Errors returned by domain operations.
var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoMoveAvailable = errors.New("no move available")
	ErrOccupied        = errors.New("cell occupied")
	ErrGameOver        = errors.New("game over")
)
