package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pior/teles"
)

const helpText = `Commands:
  create <space>                          - Create a space
  drop <space>                            - Delete a space
  spaces                                  - List spaces
  use <space>                             - Select the space for object commands
  add <object>                            - Add an object
  del <object>                            - Delete an object
  assoc <object> <lat> <lng>              - Associate a point with an object
  disassoc <object> <gid>                 - Remove an association
  objects                                 - List objects
  assocs <object>                         - List the associations of an object
  within <minLat> <maxLat> <minLng> <maxLng> - Objects inside a bounding box
  around <lat> <lng> <distance> <unit>    - Objects within a radius (unit: m, km, mi, y, ft)
  nearest <lat> <lng> <num>               - The num objects closest to a point
  stats                                   - Show connection statistics
  quit                                    - Exit the CLI`

var errUsage = errors.New("usage")

type repl struct {
	client *teles.Client
	space  *teles.Space
	out    io.Writer
}

func (r *repl) prompt() string {
	if r.space == nil {
		return "teles> "
	}
	return "teles:" + r.space.Name() + "> "
}

// exec runs one input line. It returns false when the REPL should exit.
func (r *repl) exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if command == "quit" || command == "exit" {
		fmt.Fprintln(r.out, "Goodbye!")
		return false
	}

	start := time.Now()
	err := r.dispatch(ctx, command, args)
	duration := time.Since(start)

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(r.out, "Usage: %s\n", usage(command))
	case err != nil:
		fmt.Fprintf(r.out, "Error: %v (took %v)\n", err, duration)
	}
	return true
}

func usage(command string) string {
	for _, line := range strings.Split(helpText, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == command {
			usage, _, _ := strings.Cut(strings.TrimSpace(line), " - ")
			return strings.TrimSpace(usage)
		}
	}
	return command
}

func (r *repl) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		fmt.Fprintln(r.out, helpText)
		return nil

	case "stats":
		s := r.client.Stats()
		fmt.Fprintf(r.out, "server=%s state=%s commands=%d dials=%d reconnects=%d transient=%d fatal=%d exhausted=%d\n",
			r.client.Connection().Addr(), r.client.Connection().State(),
			s.Commands, s.Dials, s.Reconnects, s.TransientErrors, s.FatalErrors, s.Exhausted)
		return nil

	case "create":
		if len(args) != 1 {
			return errUsage
		}
		if _, err := r.client.CreateSpace(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Done")
		return nil

	case "drop":
		if len(args) != 1 {
			return errUsage
		}
		deleted, err := r.client.DeleteSpace(ctx, args[0])
		if err != nil {
			return err
		}
		r.report(deleted, "Space does not exist")
		if deleted && r.space != nil && r.space.Name() == args[0] {
			r.space = nil
		}
		return nil

	case "spaces":
		if len(args) != 0 {
			return errUsage
		}
		spaces, err := r.client.ListSpaces(ctx)
		if err != nil {
			return err
		}
		r.list(spaces)
		return nil

	case "use":
		if len(args) != 1 {
			return errUsage
		}
		r.space = r.client.Space(args[0])
		return nil
	}

	return r.dispatchSpace(ctx, command, args)
}

func (r *repl) dispatchSpace(ctx context.Context, command string, args []string) error {
	if _, known := spaceArgs[command]; !known {
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", command)
		return nil
	}
	if len(args) != spaceArgs[command] {
		return errUsage
	}
	if r.space == nil {
		return errors.New("no space selected, run 'use <space>' first")
	}

	switch command {
	case "add":
		ok, err := r.space.Add(ctx, args[0])
		if err != nil {
			return err
		}
		r.report(ok, "")
		return nil

	case "del":
		ok, err := r.space.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		r.report(ok, "Object does not exist")
		return nil

	case "assoc":
		coords, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		ok, err := r.space.Associate(ctx, args[0], coords[0], coords[1])
		if err != nil {
			return err
		}
		r.report(ok, "Object does not exist")
		return nil

	case "disassoc":
		ok, err := r.space.Disassociate(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		r.report(ok, "Not associated")
		return nil

	case "objects":
		objects, err := r.space.ListObjects(ctx)
		if err != nil {
			return err
		}
		r.list(objects)
		return nil

	case "assocs":
		points, err := r.space.ListAssociations(ctx, args[0])
		if err != nil {
			return err
		}
		for _, gid := range slices.Sorted(maps.Keys(points)) {
			fmt.Fprintf(r.out, "gid=%s lat=%f lng=%f\n", gid, points[gid].Lat, points[gid].Lng)
		}
		return nil

	case "within":
		box, err := parseFloats(args)
		if err != nil {
			return err
		}
		objects, err := r.space.QueryWithin(ctx, box[0], box[1], box[2], box[3])
		if err != nil {
			return err
		}
		r.list(objects)
		return nil

	case "around":
		values, err := parseFloats(args[:3])
		if err != nil {
			return err
		}
		objects, err := r.space.QueryAround(ctx, values[0], values[1], values[2], teles.Unit(args[3]))
		if err != nil {
			return err
		}
		r.list(objects)
		return nil

	case "nearest":
		coords, err := parseFloats(args[:2])
		if err != nil {
			return err
		}
		num, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[2])
		}
		objects, err := r.space.QueryNearest(ctx, coords[0], coords[1], num)
		if err != nil {
			return err
		}
		r.list(objects)
		return nil
	}

	return nil
}

// spaceArgs maps the commands run inside the selected space to their
// argument count.
var spaceArgs = map[string]int{
	"add":      1,
	"del":      1,
	"assoc":    3,
	"disassoc": 2,
	"objects":  0,
	"assocs":   1,
	"within":   4,
	"around":   4,
	"nearest":  3,
}

func (r *repl) report(ok bool, miss string) {
	if ok {
		fmt.Fprintln(r.out, "Done")
	} else {
		fmt.Fprintln(r.out, miss)
	}
}

func (r *repl) list(items []string) {
	if len(items) == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return
	}
	for _, item := range items {
		fmt.Fprintln(r.out, item)
	}
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = f
	}
	return out, nil
}
