package teles

import "github.com/pior/teles/protocol"

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Association links an object to a point. GID is assigned by the server.
type Association struct {
	GID string
	Point
}

// Unit is a distance unit for radius queries.
type Unit string

const (
	Meters     Unit = protocol.UnitMeters
	Kilometers Unit = protocol.UnitKilometers
	Miles      Unit = protocol.UnitMiles
	Yards      Unit = protocol.UnitYards
	Feet       Unit = protocol.UnitFeet
)

// Valid reports whether the server understands the unit.
func (u Unit) Valid() bool {
	return protocol.ValidUnit(string(u))
}
