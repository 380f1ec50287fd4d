package protocol

import (
	"strconv"
	"strings"
	"sync"
)

var builderPool = sync.Pool{
	New: func() any {
		b := &strings.Builder{}
		b.Grow(128)
		return b
	},
}

// join concatenates tokens with single spaces.
func join(tokens ...string) string {
	b := builderPool.Get().(*strings.Builder)
	defer func() {
		b.Reset()
		builderPool.Put(b)
	}()

	for i, tok := range tokens {
		if i > 0 {
			b.WriteString(Space)
		}
		b.WriteString(tok)
	}
	return b.String()
}

// FormatFloat renders a coordinate or distance the way the server expects:
// fixed-point with six decimals, never in scientific notation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// SpacePrefix returns the prefix that scopes a command to a space.
func SpacePrefix(space string) string {
	return CmdIn + Space + space + Space
}

// InSpace scopes cmd to a space.
func InSpace(space, cmd string) string {
	return SpacePrefix(space) + cmd
}

func CreateSpace(name string) string {
	return join(CmdCreateSpace, name)
}

func DeleteSpace(name string) string {
	return join(CmdDeleteSpace, name)
}

func ListSpaces() string {
	return CmdListSpaces
}

func AddObject(name string) string {
	return join(CmdAddObject, name)
}

func DeleteObject(name string) string {
	return join(CmdDeleteObject, name)
}

// AssociatePoint builds the command linking a point to an object.
// Latitude always precedes longitude.
func AssociatePoint(name string, lat, lng float64) string {
	return join(CmdAssociatePoint, FormatFloat(lat), FormatFloat(lng), KeywordWith, name)
}

func Disassociate(name, gid string) string {
	return join(CmdDisassociate, gid, KeywordWith, name)
}

func ListObjects() string {
	return CmdListObjects
}

func ListAssociations(name string) string {
	return join(CmdListAssociations, name)
}

func QueryWithin(minLat, maxLat, minLng, maxLng float64) string {
	return join(CmdQueryWithin,
		FormatFloat(minLat), FormatFloat(maxLat),
		FormatFloat(minLng), FormatFloat(maxLng))
}

// QueryAround builds a radius query. The unit is appended to the distance
// with no separator, e.g. "for 5.000000km".
func QueryAround(lat, lng, distance float64, unit string) string {
	return join(CmdQueryAround, FormatFloat(lat), FormatFloat(lng), KeywordFor, FormatFloat(distance)+unit)
}

func QueryNearest(lat, lng float64, num int) string {
	return join(CmdQueryNearest, strconv.Itoa(num), KeywordTo, FormatFloat(lat), FormatFloat(lng))
}
