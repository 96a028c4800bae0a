package source

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestTextReader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "a,b\n", "a,b\n"},
		{"byte order mark", "\xEF\xBB\xBFa,b", "a,b"},
		{"bom only", "\xEF\xBB\xBF", ""},
		{"short input", "a", "a"},
		{"multi-byte runes", "café, naïve", "café, naïve"},
		{"invalid bytes", "ok\xFF\xFEok", "ok??ok"},
		{"truncated rune at end", "ab\xE2\x82", "ab??"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, wrap := range []func(io.Reader) io.Reader{
				func(r io.Reader) io.Reader { return r },
				iotest.OneByteReader,
				iotest.HalfReader,
			} {
				got, err := io.ReadAll(newTextReader(wrap(strings.NewReader(tt.in))))
				if err != nil {
					t.Fatalf("ReadAll() error = %v", err)
				}
				if string(got) != tt.want {
					t.Errorf("read %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestPartialRuneSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"a\xC3", 1},
		{"a\xE2\x82", 2},
		{"a\xF0\x9F\x98", 3},
		{"a€", 0},
		{"\xFF", 0},
	}
	for _, tt := range tests {
		if got := partialRuneSuffix([]byte(tt.in)); got != tt.want {
			t.Errorf("partialRuneSuffix(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
