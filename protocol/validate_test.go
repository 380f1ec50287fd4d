package protocol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{"valid", "cities", false},
		{"punctuation", "user:123-x", false},
		{"empty", "", true},
		{"space", "two words", true},
		{"newline", "a\nb", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("name", tt.value)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBox(t *testing.T) {
	assert.NoError(t, ValidateBox(0, 10, 0, 10))
	assert.NoError(t, ValidateBox(5, 5, 5, 5))
	assert.Error(t, ValidateBox(10, 5, 0, 10))
	assert.Error(t, ValidateBox(0, 10, 3, -3))
	assert.Error(t, ValidateBox(math.NaN(), 10, 0, 10))
	assert.Error(t, ValidateBox(0, math.Inf(1), 0, 10))
}

func TestValidateRadius(t *testing.T) {
	for _, unit := range []string{UnitMeters, UnitKilometers, UnitMiles, UnitYards, UnitFeet} {
		assert.NoError(t, ValidateRadius(1, unit), unit)
	}

	assert.Error(t, ValidateRadius(1, "furlong"))
	assert.Error(t, ValidateRadius(1, ""))
	assert.Error(t, ValidateRadius(0, UnitMiles))
	assert.Error(t, ValidateRadius(-1, UnitMiles))
	assert.Error(t, ValidateRadius(math.NaN(), UnitMiles))
}

func TestValidateCount(t *testing.T) {
	assert.NoError(t, ValidateCount(1))
	assert.Error(t, ValidateCount(0))
	assert.Error(t, ValidateCount(-3))
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, OutcomeDone, ParseOutcome("Done"))
	assert.Equal(t, OutcomeSpaceMissing, ParseOutcome("Space does not exist"))
	assert.Equal(t, OutcomeObjectMissing, ParseOutcome("Object does not exist"))
	assert.Equal(t, OutcomeNotAssociated, ParseOutcome("GID not associated"))
	assert.Equal(t, OutcomeUnrecognized, ParseOutcome("done"))
	assert.Equal(t, OutcomeUnrecognized, ParseOutcome("Client Error: Bad arguments"))
	assert.Equal(t, "NotAssociated", OutcomeNotAssociated.String())
}
