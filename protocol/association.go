package protocol

import (
	"strconv"
	"strings"
)

// Association is one line of a "list associations" block.
type Association struct {
	GID string
	Lat float64
	Lng float64
}

// ParseAssociation parses an association line.
//
// Format: three fields separated by single spaces, each made of a label of
// AssociationLabelWidth characters followed by the value:
//
//	gid=42 lat=47.610000 lng=-122.330000
//
// Values are cut at the fixed label width rather than by looking for a
// delimiter inside the field, so labels are never interpreted.
func ParseAssociation(line string) (Association, error) {
	fields := strings.Split(line, Space)
	if len(fields) != AssociationFields {
		return Association{}, &ParseError{Line: line, Message: "expected 3 fields"}
	}

	values := make([]string, len(fields))
	for i, f := range fields {
		if len(f) <= AssociationLabelWidth {
			return Association{}, &ParseError{Line: line, Message: "field " + strconv.Itoa(i+1) + " has no value"}
		}
		values[i] = f[AssociationLabelWidth:]
	}

	lat, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return Association{}, &ParseError{Line: line, Message: "invalid latitude", Err: err}
	}

	lng, err := strconv.ParseFloat(values[2], 64)
	if err != nil {
		return Association{}, &ParseError{Line: line, Message: "invalid longitude", Err: err}
	}

	return Association{GID: values[0], Lat: lat, Lng: lng}, nil
}

// ParseAssociations parses every line of a block. The first malformed line
// aborts parsing; no partial result is returned.
func ParseAssociations(lines []string) ([]Association, error) {
	out := make([]Association, 0, len(lines))
	for _, line := range lines {
		a, err := ParseAssociation(line)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
