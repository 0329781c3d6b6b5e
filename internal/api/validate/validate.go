package validate

import (
	"fmt"
	"strconv"
	"time"
)

// ID parses a path or query parameter as a positive int64 identifier.
func ID(field, v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", field)
	}
	return id, nil
}

// NonEmpty rejects an empty required string field.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// OneOf rejects values outside the allowed set. Empty values pass when
// allowEmpty is set; the record keeps its default.
func OneOf(field, v string, allowEmpty bool, allowed ...string) error {
	if v == "" {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%s is required", field)
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v", field, allowed)
}

// Time parses an RFC 3339 timestamp parameter.
func Time(field, v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	return t, nil
}
