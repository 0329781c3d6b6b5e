package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBackend         = errors.New("backend failure")
)

// ValidateID rejects identifiers that are not positive integers.
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive integer, got %d", ErrInvalidArgument, id)
	}
	return nil
}
