package protocol

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// Buffer pool for building command lines
var bufferPool = sync.Pool{
	New: func() any {
		// Typical command is well under 128 bytes
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}

// WriteCommand writes cmd followed by a single LF to w, in one Write call so
// the line is never interleaved with another writer's bytes.
//
// Commands containing CR or LF are rejected: the server would read them as
// several commands and the responses would no longer line up.
func WriteCommand(w io.Writer, cmd string) error {
	if strings.ContainsAny(cmd, "\r\n") {
		return &ValidationError{Field: "command", Message: "contains a line break"}
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	buf.WriteString(cmd)
	buf.WriteString(LF)

	_, err := w.Write(buf.Bytes())
	return err
}
