package testutils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FakeTeles is an in-memory stand-in for a Teles server, good enough to
// exercise the client end to end. Use its Handle method as a Server Handler.
type FakeTeles struct {
	mu      sync.Mutex
	spaces  map[string]map[string][]fakePoint
	nextGID int
}

type fakePoint struct {
	gid      int
	lat, lng float64
}

// NewFakeTeles returns an empty fake server.
func NewFakeTeles() *FakeTeles {
	return &FakeTeles{spaces: make(map[string]map[string][]fakePoint)}
}

func block(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "START")
	out = append(out, lines...)
	return append(out, "END")
}

// Handle answers one command line.
func (f *FakeTeles) Handle(cmd string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	args := strings.Fields(cmd)
	switch {
	case len(args) == 3 && args[0] == "create" && args[1] == "space":
		if _, ok := f.spaces[args[2]]; !ok {
			f.spaces[args[2]] = make(map[string][]fakePoint)
		}
		return []string{"Done"}

	case len(args) == 3 && args[0] == "delete" && args[1] == "space":
		if _, ok := f.spaces[args[2]]; !ok {
			return []string{"Space does not exist"}
		}
		delete(f.spaces, args[2])
		return []string{"Done"}

	case len(args) == 2 && args[0] == "list" && args[1] == "spaces":
		names := make([]string, 0, len(f.spaces))
		for name := range f.spaces {
			names = append(names, name)
		}
		sort.Strings(names)
		return block(names)

	case len(args) > 2 && args[0] == "in":
		objects, ok := f.spaces[args[1]]
		if !ok {
			return []string{"Space does not exist"}
		}
		return f.handleSpace(objects, args[2:])
	}

	return []string{"Client Error: Command not supported"}
}

func (f *FakeTeles) handleSpace(objects map[string][]fakePoint, args []string) []string {
	switch {
	case len(args) == 3 && args[0] == "add" && args[1] == "object":
		if _, ok := objects[args[2]]; !ok {
			objects[args[2]] = nil
		}
		return []string{"Done"}

	case len(args) == 3 && args[0] == "delete" && args[1] == "object":
		if _, ok := objects[args[2]]; !ok {
			return []string{"Object does not exist"}
		}
		delete(objects, args[2])
		return []string{"Done"}

	case len(args) == 6 && args[0] == "associate" && args[1] == "point" && args[4] == "with":
		points, ok := objects[args[5]]
		if !ok {
			return []string{"Object does not exist"}
		}
		lat, err1 := strconv.ParseFloat(args[2], 64)
		lng, err2 := strconv.ParseFloat(args[3], 64)
		if err1 != nil || err2 != nil {
			return []string{"Client Error: Bad arguments"}
		}
		f.nextGID++
		objects[args[5]] = append(points, fakePoint{gid: f.nextGID, lat: lat, lng: lng})
		return []string{"Done"}

	case len(args) == 4 && args[0] == "disassociate" && args[2] == "with":
		points, ok := objects[args[3]]
		if !ok {
			return []string{"Object does not exist"}
		}
		for i, p := range points {
			if strconv.Itoa(p.gid) == args[1] {
				objects[args[3]] = append(points[:i], points[i+1:]...)
				return []string{"Done"}
			}
		}
		return []string{"GID not associated"}

	case len(args) == 2 && args[0] == "list" && args[1] == "objects":
		return block(sortedNames(objects, func([]fakePoint) bool { return true }))

	case len(args) == 4 && args[0] == "list" && args[1] == "associations" && args[2] == "with":
		points, ok := objects[args[3]]
		if !ok {
			return []string{"Object does not exist"}
		}
		lines := make([]string, 0, len(points))
		for _, p := range points {
			lines = append(lines, fmt.Sprintf("gid=%d lat=%f lng=%f", p.gid, p.lat, p.lng))
		}
		return block(lines)

	case len(args) == 6 && args[0] == "query" && args[1] == "within":
		v, ok := floats(args[2:6])
		if !ok {
			return []string{"Client Error: Bad arguments"}
		}
		return block(sortedNames(objects, func(points []fakePoint) bool {
			for _, p := range points {
				if p.lat >= v[0] && p.lat <= v[1] && p.lng >= v[2] && p.lng <= v[3] {
					return true
				}
			}
			return false
		}))

	case len(args) == 6 && args[0] == "query" && args[1] == "nearest" && args[3] == "to":
		num, err := strconv.Atoi(args[2])
		v, ok := floats(args[4:6])
		if err != nil || !ok {
			return []string{"Client Error: Bad arguments"}
		}
		return block(nearest(objects, v[0], v[1], num))

	case len(args) == 6 && args[0] == "query" && args[1] == "around" && args[4] == "for":
		v, ok := floats(args[2:4])
		if !ok {
			return []string{"Client Error: Bad arguments"}
		}
		meters, ok := parseDistance(args[5])
		if !ok {
			return []string{"Client Error: Bad arguments"}
		}
		return block(sortedNames(objects, func(points []fakePoint) bool {
			for _, p := range points {
				if haversine(v[0], v[1], p.lat, p.lng) <= meters {
					return true
				}
			}
			return false
		}))
	}

	return []string{"Client Error: Command not supported"}
}

func floats(args []string) ([]float64, bool) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func sortedNames(objects map[string][]fakePoint, keep func([]fakePoint) bool) []string {
	names := []string{}
	for name, points := range objects {
		if keep(points) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func nearest(objects map[string][]fakePoint, lat, lng float64, num int) []string {
	type candidate struct {
		name string
		dist float64
	}

	var cands []candidate
	for name, points := range objects {
		best := math.Inf(1)
		for _, p := range points {
			best = math.Min(best, haversine(lat, lng, p.lat, p.lng))
		}
		if !math.IsInf(best, 1) {
			cands = append(cands, candidate{name, best})
		}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	names := []string{}
	for i := 0; i < len(cands) && i < num; i++ {
		names = append(names, cands[i].name)
	}
	return names
}

var unitMeters = map[string]float64{
	"km": 1000,
	"mi": 1609.344,
	"ft": 0.3048,
	"m":  1,
	"y":  0.9144,
}

func parseDistance(s string) (float64, bool) {
	// Longest suffixes first so "km" is not read as "m"
	for _, unit := range []string{"km", "mi", "ft", "m", "y"} {
		if num, ok := strings.CutSuffix(s, unit); ok {
			d, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, false
			}
			return d * unitMeters[unit], true
		}
	}
	return 0, false
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(a))
}
