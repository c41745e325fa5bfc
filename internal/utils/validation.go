package utils

import (
	"errors"
	"math"
	"regexp"
)

// MaxProfilePoints bounds how many points one request may sample.
const MaxProfilePoints = 100000

var (
	// Layer names: alphanumeric, underscore, hyphen, dot
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateNum checks a requested point count.
func ValidateNum(num int) error {
	if num < 0 {
		return errors.New("num must be non-negative")
	}
	if num > MaxProfilePoints {
		return errors.New("num too large (max 100000)")
	}
	return nil
}

// ValidateCoordinate rejects NaN and infinite projected coordinates.
func ValidateCoordinate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("coordinate must be finite")
	}
	return nil
}

// ValidateDistanceBounds checks optional clip bounds.
func ValidateDistanceBounds(minDist, maxDist *float64) error {
	if minDist != nil && *minDist < 0 {
		return errors.New("min_dist must be non-negative")
	}
	if minDist != nil && maxDist != nil && *minDist >= *maxDist {
		return errors.New("min_dist must be less than max_dist")
	}
	return nil
}

// ValidateProfileParams validates the shared profile parameters.
func ValidateProfileParams(num int, layers []string, minDist, maxDist *float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateNum(num); err != nil {
		fieldErrors["num"] = append(fieldErrors["num"], err.Error())
	}
	for _, l := range layers {
		if err := ValidateID(l); err != nil {
			fieldErrors["layers"] = append(fieldErrors["layers"], err.Error())
		}
	}
	if err := ValidateDistanceBounds(minDist, maxDist); err != nil {
		fieldErrors["dist"] = append(fieldErrors["dist"], err.Error())
	}
	return fieldErrors
}
