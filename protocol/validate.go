package protocol

import (
	"math"
	"strings"
)

// ValidateName checks that a space name, object name or gid can be placed
// on a command line: it must be non-empty and contain no whitespace, since
// the protocol separates tokens with spaces and lines with newlines.
func ValidateName(field, name string) error {
	if name == "" {
		return &ValidationError{Field: field, Message: "is empty"}
	}

	if strings.ContainsAny(name, " \t\r\n\v\f") {
		return &ValidationError{Field: field, Message: "contains whitespace"}
	}

	return nil
}

// ValidateCoordinate rejects NaN and infinities, which have no fixed-point
// rendering the server can parse.
func ValidateCoordinate(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "is not a finite number"}
	}
	return nil
}

// ValidateBox checks a bounding box. Minimums must not exceed maximums;
// a degenerate box (min == max) is allowed.
func ValidateBox(minLat, maxLat, minLng, maxLng float64) error {
	for _, c := range []struct {
		field string
		v     float64
	}{
		{"min_lat", minLat}, {"max_lat", maxLat}, {"min_lng", minLng}, {"max_lng", maxLng},
	} {
		if err := ValidateCoordinate(c.field, c.v); err != nil {
			return err
		}
	}

	if minLat > maxLat || minLng > maxLng {
		return &ValidationError{Field: "bounding box", Message: "minimum lat/lng must be less than maximum lat/lng"}
	}
	return nil
}

// ValidUnit reports whether unit is a distance unit the server understands.
func ValidUnit(unit string) bool {
	switch unit {
	case UnitMeters, UnitKilometers, UnitMiles, UnitYards, UnitFeet:
		return true
	default:
		return false
	}
}

// ValidateRadius checks the distance and unit of a radius query.
func ValidateRadius(distance float64, unit string) error {
	if !ValidUnit(unit) {
		return &ValidationError{Field: "unit", Message: "bad unit " + unit}
	}

	if err := ValidateCoordinate("distance", distance); err != nil {
		return err
	}

	if distance <= 0 {
		return &ValidationError{Field: "distance", Message: "must be positive"}
	}
	return nil
}

// ValidateCount checks the neighbour count of a nearest query.
func ValidateCount(num int) error {
	if num <= 0 {
		return &ValidationError{Field: "num", Message: "must be positive"}
	}
	return nil
}
