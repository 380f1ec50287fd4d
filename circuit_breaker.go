package teles

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pior/teles/protocol"
)

// NewCircuitBreakerConfig returns a function that creates circuit breakers for servers.
// This is a helper for common use cases.
//
// The breaker trips once at least 3 requests were seen in the interval and
// 60% of them failed at the transport or framing level. Errors that leave
// the connection usable, such as rejected arguments, a malformed block line
// or a context that was done before any I/O, count as successes.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) *gobreaker.CircuitBreaker[struct{}] {
	return func(serverAddr string) *gobreaker.CircuitBreaker[struct{}] {
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				return !connectionBroken(err)
			},
		}
		return gobreaker.NewCircuitBreaker[struct{}](settings)
	}
}

// connectionBroken reports whether err left the connection unusable.
// A breaker refusing the request never reached the socket.
func connectionBroken(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return protocol.ShouldCloseConnection(err)
}
