// Package protocol implements the wire grammar of the Teles line protocol.
//
// It knows nothing about sockets or retries: it builds command lines, writes
// them to an io.Writer, reads single lines and START/END blocks from a
// bufio.Reader, and decodes the few structured responses the server emits.
// Connection management lives in the parent package.
//
// # Commands
//
// Builders return the command text without the trailing newline:
//
//	protocol.CreateSpace("cities")                    // create space cities
//	protocol.InSpace("cities", protocol.AddObject("sf")) // in cities add object sf
//	protocol.AssociatePoint("sf", 37.77, -122.42)     // associate point 37.770000 -122.420000 with sf
//
// WriteCommand appends the newline and writes the line in one call.
//
// # Responses
//
// Single-line responses are classified with ParseOutcome. Block responses
// are read with ReadBlock:
//
//	lines, err := protocol.ReadBlock(bufio.NewReader(conn))
//	if err != nil {
//	    if protocol.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
//
// # Error Handling
//
//   - FramingError: block did not start with START, CLOSE connection
//   - ParseError: block line did not match its sub-grammar, connection is fine
//   - ValidationError: argument rejected before any I/O, connection is fine
package protocol
