// Package teles is a client for the Teles spatial-indexing server.
//
// Teles speaks a plaintext line protocol over TCP (port 2856 by default).
// The server holds named spaces; a space holds named objects, and each
// object can be associated with any number of geographic points. Spaces can
// be queried by bounding box, by radius and by nearest neighbours.
//
// # Quick Start
//
//	client, err := teles.NewClient("localhost", teles.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	cities, err := client.CreateSpace(ctx, "cities")
//	if err != nil {
//	    return err
//	}
//	cities.Add(ctx, "seattle")
//	cities.Associate(ctx, "seattle", 47.61, -122.33)
//	near, err := cities.QueryAround(ctx, 47.6, -122.3, 10, teles.Kilometers)
//
// # Connection Handling
//
// A Client owns one Connection. The socket is opened on the first request
// and reused. Transient failures (connection reset or refused, broken pipe,
// host unreachable, resource temporarily unavailable) replace the socket and
// retry, up to Config.Attempts tries per call; after that the call fails
// with a ConnectivityError wrapping ErrCannotContact. Other transport errors
// are returned immediately.
//
// Requests on a Connection are serialized. For parallel requests use a
// Pool, which gives each caller its own Client. To spread spaces over
// several servers use a ShardedClient.
//
// # Errors
//
//   - ConnectivityError: transient errors exhausted the attempts
//   - ConnectionError: non-transient dial, write or read failure
//   - protocol.FramingError: a block response did not start with START
//   - ProtocolError: the server replied with an unrecognized line
//   - protocol.ValidationError: an argument was rejected before any I/O
//   - protocol.ParseError: a block line did not follow its grammar
package teles
