// Command teles-bench measures throughput and latency of a Teles server
// through a client pool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pior/teles"
)

type OperationType string

const (
	Associate    OperationType = "associate"
	QueryWithin  OperationType = "query-within"
	QueryAround  OperationType = "query-around"
	QueryNearest OperationType = "query-nearest"
	All          OperationType = "all"
)

var operations = []OperationType{Associate, QueryWithin, QueryAround, QueryNearest}

type BenchmarkResult struct {
	Operation    OperationType
	Duration     time.Duration
	TotalOps     int64
	Successes    int64
	Failures     int64
	AvgLatency   time.Duration
	OpsPerSecond float64
	ErrorMessage string
}

func main() {
	var (
		operation   = flag.String("operation", "all", "Operation type: associate, query-within, query-around, query-nearest, or all")
		duration    = flag.Duration("duration", 5*time.Second, "Duration of each benchmark")
		concurrency = flag.Int("concurrency", 4, "Number of concurrent workers")
		server      = flag.String("server", "localhost:2856", "Teles server address")
		objects     = flag.Int("objects", 1000, "Number of objects loaded before the benchmarks")
		space       = flag.String("space", "teles-bench", "Space used by the benchmark, deleted at the end")
	)
	flag.Parse()

	fmt.Printf("Teles Benchmark Tool\n")
	fmt.Printf("====================\n")
	fmt.Printf("Operation: %s\n", *operation)
	fmt.Printf("Duration: %v\n", *duration)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Server: %s\n", *server)
	fmt.Println()

	pool, err := teles.NewPool(*server, teles.PoolConfig{MaxSize: int32(*concurrency)})
	if err != nil {
		log.Fatalf("Failed to create pool: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	b := &bench{pool: pool, space: *space}

	fmt.Printf("Loading %d objects into %s...", *objects, *space)
	if err := b.setup(ctx, *objects); err != nil {
		fmt.Printf(" failed: %v\n", err)
		fmt.Printf("Make sure a teles server is running on %s\n", *server)
		return
	}
	fmt.Println(" done")
	defer b.teardown(ctx)

	selected := []OperationType{OperationType(*operation)}
	if selected[0] == All {
		selected = operations
	}

	for _, op := range selected {
		fmt.Printf("\n--- Running %s benchmark ---\n", op)
		printResult(b.run(ctx, op, *duration, *concurrency))
	}
}

type bench struct {
	pool    *teles.Pool
	space   string
	objects int
}

// setup creates the space and gives every object one random point.
func (b *bench) setup(ctx context.Context, objects int) error {
	b.objects = objects

	return b.pool.With(ctx, func(c *teles.Client) error {
		space, err := c.CreateSpace(ctx, b.space)
		if err != nil {
			return err
		}

		for i := range objects {
			name := objectName(i)
			if _, err := space.Add(ctx, name); err != nil {
				return err
			}
			lat, lng := randomPoint()
			if _, err := space.Associate(ctx, name, lat, lng); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *bench) teardown(ctx context.Context) {
	_ = b.pool.With(ctx, func(c *teles.Client) error {
		_, err := c.DeleteSpace(ctx, b.space)
		return err
	})
}

func objectName(i int) string {
	return fmt.Sprintf("object-%d", i)
}

func randomPoint() (lat, lng float64) {
	return rand.Float64()*180 - 90, rand.Float64()*360 - 180
}

// operation returns the function run by workers for op.
func (b *bench) operation(op OperationType) (func(ctx context.Context, s *teles.Space) error, bool) {
	switch op {
	case Associate:
		return func(ctx context.Context, s *teles.Space) error {
			lat, lng := randomPoint()
			_, err := s.Associate(ctx, objectName(rand.IntN(max(b.objects, 1))), lat, lng)
			return err
		}, true
	case QueryWithin:
		return func(ctx context.Context, s *teles.Space) error {
			lat, lng := randomPoint()
			_, err := s.QueryWithin(ctx, lat, min(lat+10, 90), lng, min(lng+10, 180))
			return err
		}, true
	case QueryAround:
		return func(ctx context.Context, s *teles.Space) error {
			lat, lng := randomPoint()
			_, err := s.QueryAround(ctx, lat, lng, 500, teles.Kilometers)
			return err
		}, true
	case QueryNearest:
		return func(ctx context.Context, s *teles.Space) error {
			lat, lng := randomPoint()
			_, err := s.QueryNearest(ctx, lat, lng, 10)
			return err
		}, true
	}
	return nil, false
}

func (b *bench) run(ctx context.Context, op OperationType, duration time.Duration, concurrency int) *BenchmarkResult {
	result := &BenchmarkResult{Operation: op}

	fn, ok := b.operation(op)
	if !ok {
		result.ErrorMessage = fmt.Sprintf("Unknown operation: %s", op)
		return result
	}

	var totalOps, successes, failures, totalLatency atomic.Int64
	var lastErr atomic.Value

	deadline := time.Now().Add(duration)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for range max(concurrency, 1) {
		g.Go(func() error {
			for time.Now().Before(deadline) {
				opStart := time.Now()
				err := b.pool.With(ctx, func(c *teles.Client) error {
					return fn(ctx, c.Space(b.space))
				})
				totalLatency.Add(int64(time.Since(opStart)))
				totalOps.Add(1)

				if err != nil {
					failures.Add(1)
					lastErr.Store(err.Error())
				} else {
					successes.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(startTime)
	result.TotalOps = totalOps.Load()
	result.Successes = successes.Load()
	result.Failures = failures.Load()
	if result.TotalOps > 0 {
		result.AvgLatency = time.Duration(totalLatency.Load() / result.TotalOps)
		result.OpsPerSecond = float64(result.TotalOps) / result.Duration.Seconds()
	}
	if msg, ok := lastErr.Load().(string); ok {
		result.ErrorMessage = msg
	}
	return result
}

func printResult(result *BenchmarkResult) {
	fmt.Printf("Results for %s:\n", result.Operation)
	fmt.Printf("  Duration:       %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  Total ops:      %d\n", result.TotalOps)
	fmt.Printf("  Successes:      %d\n", result.Successes)
	fmt.Printf("  Failures:       %d\n", result.Failures)
	fmt.Printf("  Avg latency:    %v\n", result.AvgLatency)
	fmt.Printf("  Ops/sec:        %.2f\n", result.OpsPerSecond)
	if result.ErrorMessage != "" {
		fmt.Printf("  Last error:     %s\n", result.ErrorMessage)
	}
}
