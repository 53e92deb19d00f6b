package loader

import (
	"bufio"
	"bytes"
	"io"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// skipBOM wraps r so a leading UTF-8 byte order mark is dropped. Without
// it the mark ends up in the first header name.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(len(bom))
	if err == nil && bytes.Equal(prefix, bom) {
		_, _ = br.Discard(len(bom))
	}

	return br
}
