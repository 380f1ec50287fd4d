package protocol

import (
	"bufio"
	"math"
	"strings"
	"testing"
)

func FuzzReadBlock(f *testing.F) {
	f.Add("START\nEND\n")
	f.Add("START\r\nfoo\r\nbar\r\nEND\r\n")
	f.Add("START\nfoo\n")
	f.Add("Done\n")
	f.Add("")
	f.Add("START\nEND")

	f.Fuzz(func(t *testing.T, input string) {
		lines, err := ReadBlock(bufio.NewReader(strings.NewReader(input)))
		if err != nil {
			if lines != nil {
				t.Errorf("partial result %q returned with error %v", lines, err)
			}
			return
		}

		for _, line := range lines {
			if line == BlockEnd {
				t.Errorf("end sentinel returned as content")
			}
			if strings.ContainsAny(line, "\n") {
				t.Errorf("line %q contains a newline", line)
			}
		}
	})
}

func FuzzParseAssociation(f *testing.F) {
	f.Add("gid=1 lat=2.5 lng=-3.5")
	f.Add("gid=42 lat=47.610000 lng=-122.330000")
	f.Add("gid=1 lat=2.5")
	f.Add("gid= lat=1 lng=2")
	f.Add("gid=1  lat=2 lng=3")
	f.Add("")

	f.Fuzz(func(t *testing.T, line string) {
		a, err := ParseAssociation(line)
		if err != nil {
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("unexpected error type %T", err)
			}
			return
		}

		if a.GID == "" {
			t.Errorf("empty gid accepted from %q", line)
		}
		if strings.Contains(a.GID, Space) {
			t.Errorf("gid %q contains a space", a.GID)
		}
	})
}

func FuzzCommandsStayOnOneLine(f *testing.F) {
	f.Add("foo", 1.5, -2.25, 10.0, 3)
	f.Add("a", math.MaxFloat64, -math.MaxFloat64, 1e-9, 1)

	f.Fuzz(func(t *testing.T, name string, lat, lng, distance float64, num int) {
		if ValidateName("object", name) != nil || ValidateCoordinate("lat", lat) != nil ||
			ValidateCoordinate("lng", lng) != nil || ValidateRadius(distance, UnitMeters) != nil ||
			ValidateCount(num) != nil {
			return
		}

		for _, cmd := range []string{
			InSpace(name, AssociatePoint(name, lat, lng)),
			InSpace(name, QueryAround(lat, lng, distance, UnitMeters)),
			InSpace(name, QueryNearest(lat, lng, num)),
		} {
			if strings.ContainsAny(cmd, "\r\n") {
				t.Errorf("command %q spans lines", cmd)
			}
		}
	})
}
