package source

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textReader drops a leading UTF-8 byte order mark and replaces invalid
// UTF-8 bytes with '?'. A multi-byte rune split across two reads is held
// back and completed on the next read.
type textReader struct {
	r       *bufio.Reader
	pending []byte
}

func newTextReader(r io.Reader) *textReader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &textReader{r: br}
}

func (t *textReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		n := copy(p, t.pending)
		t.pending = t.pending[n:]

		var err error
		if n < len(p) {
			var m int
			m, err = t.r.Read(p[n:])
			n += m
		}
		if n == 0 {
			return 0, err
		}

		data := p[:n]
		if err == nil && len(t.pending) == 0 {
			switch k := partialRuneSuffix(data); {
			case k == 0:
			case k < n:
				t.pending = append(t.pending, data[n-k:]...)
				data = data[:n-k]
			case len(p) >= utf8.UTFMax:
				// Nothing but the start of a rune; wait for the rest.
				t.pending = append(t.pending, data...)
				continue
			}
		}
		return sanitizeUTF8(data), err
	}
}

// partialRuneSuffix returns how many trailing bytes of data start a rune
// that is not yet complete.
func partialRuneSuffix(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		if utf8.RuneStart(data[len(data)-i]) {
			if utf8.FullRune(data[len(data)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

// sanitizeUTF8 rewrites data in place with every invalid byte replaced by
// '?', returning the new length.
func sanitizeUTF8(data []byte) int {
	if utf8.Valid(data) {
		return len(data)
	}
	w := 0
	for r := 0; r < len(data); {
		c, size := utf8.DecodeRune(data[r:])
		if c == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		w += copy(data[w:], data[r:r+size])
		r += size
	}
	return w
}
