package teles

import (
	"context"

	"github.com/pior/teles/protocol"
)

// Space is a handle on a named space. It shares, and never closes, the
// connection of the client that created it.
type Space struct {
	conn   *Connection
	name   string
	prefix string
}

func newSpace(conn *Connection, name string) *Space {
	return &Space{
		conn:   conn,
		name:   name,
		prefix: protocol.SpacePrefix(name),
	}
}

// Name returns the space name.
func (s *Space) Name() string {
	return s.name
}

func (s *Space) validate() error {
	return protocol.ValidateName("space", s.name)
}

// Add adds an object to the space. Adding an existing object succeeds.
func (s *Space) Add(ctx context.Context, name string) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	if err := protocol.ValidateName("object", name); err != nil {
		return false, err
	}

	cmd := s.prefix + protocol.AddObject(name)
	resp, err := s.conn.RequestLine(ctx, cmd)
	if err != nil {
		return false, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return true, nil
	default:
		return false, &ProtocolError{Command: cmd, Response: resp}
	}
}

// Delete removes an object and its associations. It returns false when
// the object does not exist.
func (s *Space) Delete(ctx context.Context, name string) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	if err := protocol.ValidateName("object", name); err != nil {
		return false, err
	}

	cmd := s.prefix + protocol.DeleteObject(name)
	resp, err := s.conn.RequestLine(ctx, cmd)
	if err != nil {
		return false, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return true, nil
	case protocol.OutcomeObjectMissing:
		return false, nil
	default:
		return false, &ProtocolError{Command: cmd, Response: resp}
	}
}

// Associate links the object to a point. It returns false when the object
// does not exist.
func (s *Space) Associate(ctx context.Context, name string, lat, lng float64) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	if err := protocol.ValidateName("object", name); err != nil {
		return false, err
	}
	if err := protocol.ValidateCoordinate("lat", lat); err != nil {
		return false, err
	}
	if err := protocol.ValidateCoordinate("lng", lng); err != nil {
		return false, err
	}

	cmd := s.prefix + protocol.AssociatePoint(name, lat, lng)
	resp, err := s.conn.RequestLine(ctx, cmd)
	if err != nil {
		return false, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return true, nil
	case protocol.OutcomeObjectMissing:
		return false, nil
	default:
		return false, &ProtocolError{Command: cmd, Response: resp}
	}
}

// Disassociate removes the association gid from the object. It returns
// false when the object does not exist or the gid is not associated with it.
func (s *Space) Disassociate(ctx context.Context, name, gid string) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	if err := protocol.ValidateName("object", name); err != nil {
		return false, err
	}
	if err := protocol.ValidateName("gid", gid); err != nil {
		return false, err
	}

	cmd := s.prefix + protocol.Disassociate(name, gid)
	resp, err := s.conn.RequestLine(ctx, cmd)
	if err != nil {
		return false, err
	}

	switch protocol.ParseOutcome(resp) {
	case protocol.OutcomeDone:
		return true, nil
	case protocol.OutcomeObjectMissing, protocol.OutcomeNotAssociated:
		return false, nil
	default:
		return false, &ProtocolError{Command: cmd, Response: resp}
	}
}

// ListObjects returns the names of all objects in the space.
func (s *Space) ListObjects(ctx context.Context) ([]string, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s.conn.RequestBlock(ctx, s.prefix+protocol.ListObjects())
}

// ListAssociations returns the points associated with an object, keyed by
// gid. When the server lists a gid twice the last line wins.
func (s *Space) ListAssociations(ctx context.Context, name string) (map[string]Point, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := protocol.ValidateName("object", name); err != nil {
		return nil, err
	}

	lines, err := s.conn.RequestBlock(ctx, s.prefix+protocol.ListAssociations(name))
	if err != nil {
		return nil, err
	}

	associations, err := protocol.ParseAssociations(lines)
	if err != nil {
		return nil, err
	}

	points := make(map[string]Point, len(associations))
	for _, a := range associations {
		points[a.GID] = Point{Lat: a.Lat, Lng: a.Lng}
	}
	return points, nil
}

// QueryWithin returns the objects with a point inside the bounding box.
// An inverted box is rejected without contacting the server.
func (s *Space) QueryWithin(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]string, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := protocol.ValidateBox(minLat, maxLat, minLng, maxLng); err != nil {
		return nil, err
	}
	return s.conn.RequestBlock(ctx, s.prefix+protocol.QueryWithin(minLat, maxLat, minLng, maxLng))
}

// QueryAround returns the objects with a point within distance of lat/lng.
// The distance must be positive and the unit one of m, km, mi, y, ft.
func (s *Space) QueryAround(ctx context.Context, lat, lng, distance float64, unit Unit) ([]string, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := protocol.ValidateRadius(distance, string(unit)); err != nil {
		return nil, err
	}
	if err := protocol.ValidateCoordinate("lat", lat); err != nil {
		return nil, err
	}
	if err := protocol.ValidateCoordinate("lng", lng); err != nil {
		return nil, err
	}
	return s.conn.RequestBlock(ctx, s.prefix+protocol.QueryAround(lat, lng, distance, string(unit)))
}

// QueryNearest returns up to num objects closest to lat/lng.
func (s *Space) QueryNearest(ctx context.Context, lat, lng float64, num int) ([]string, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := protocol.ValidateCount(num); err != nil {
		return nil, err
	}
	if err := protocol.ValidateCoordinate("lat", lat); err != nil {
		return nil, err
	}
	if err := protocol.ValidateCoordinate("lng", lng); err != nil {
		return nil, err
	}
	return s.conn.RequestBlock(ctx, s.prefix+protocol.QueryNearest(lat, lng, num))
}
