package protocol

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssociation(t *testing.T) {
	a, err := ParseAssociation("gid=1 lat=2.5 lng=-3.5")
	require.NoError(t, err)
	assert.Equal(t, Association{GID: "1", Lat: 2.5, Lng: -3.5}, a)
}

func TestParseAssociation_FixedWidthLabels(t *testing.T) {
	// Labels are cut by width, not by content
	a, err := ParseAssociation("GID:77 LAT:10.000000 LNG:20.000000")
	require.NoError(t, err)
	assert.Equal(t, "77", a.GID)
	assert.Equal(t, 10.0, a.Lat)
	assert.Equal(t, 20.0, a.Lng)
}

func TestParseAssociation_LabelsWithoutSeparator(t *testing.T) {
	// Labels are four characters wide: "gid1" is all label and no value
	_, err := ParseAssociation("gid1 lat2.5 lng-3.5")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "field 1 has no value", parseErr.Message)
}

func TestParseAssociation_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"two fields", "gid=1 lat=2.5"},
		{"four fields", "gid=1 lat=2.5 lng=3.5 extra"},
		{"missing value", "gid= lat=2.5 lng=3.5"},
		{"bad latitude", "gid=1 lat=north lng=3.5"},
		{"bad longitude", "gid=1 lat=2.5 lng=west"},
		{"double space", "gid=1  lat=2.5 lng=3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssociation(tt.line)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.False(t, ShouldCloseConnection(err))
		})
	}
}

func TestParseAssociation_WrapsFloatError(t *testing.T) {
	_, err := ParseAssociation("gid=1 lat=x lng=3.5")
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestParseAssociations(t *testing.T) {
	got, err := ParseAssociations([]string{
		"gid=1 lat=2.5 lng=-3.5",
		"gid=2 lat=0.000000 lng=0.000000",
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "2", got[1].GID)

	got, err = ParseAssociations([]string{"gid=1 lat=2.5 lng=-3.5", "garbage"})
	assert.Error(t, err)
	assert.Nil(t, got)
}
