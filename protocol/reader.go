package protocol

import (
	"bufio"
	"io"
	"strings"
)

// ReadLine reads a single response line from r and strips its terminator
// (CRLF or LF).
//
// A stream that ends before a terminator yields io.ErrUnexpectedEOF when some
// bytes were read, io.EOF otherwise.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ReadBlock reads a START/END delimited block from r.
// See ReadBlockDelimited.
func ReadBlock(r *bufio.Reader) ([]string, error) {
	return ReadBlockDelimited(r, BlockStart, BlockEnd)
}

// ReadBlockDelimited reads a block framed by the start and end sentinels.
//
// The first line must equal start, otherwise a FramingError is returned and
// no further line is consumed. Content lines are accumulated until a line
// equal to end; the sentinels are not part of the result. An empty block
// returns an empty, non-nil slice.
//
// There is no limit on block length: reads continue until the end sentinel
// or an I/O error (typically a deadline set on the underlying connection).
// I/O errors are returned as-is with no partial result.
//
// Example response:
//
//	START
//	foo
//	bar
//	END
func ReadBlockDelimited(r *bufio.Reader, start, end string) ([]string, error) {
	first, err := ReadLine(r)
	if err != nil {
		return nil, err
	}

	if first != start {
		return nil, &FramingError{Expected: start, Got: first}
	}

	lines := []string{}
	for {
		line, err := ReadLine(r)
		if err != nil {
			return nil, err
		}

		if line == end {
			return lines, nil
		}

		lines = append(lines, line)
	}
}
