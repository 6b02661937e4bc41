package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, ColorNever)

	r.Skip("/src/nested", 1, 3)
	r.Hashing("/src/a.txt", 2, 3, 5)
	r.HashError("/src/b.txt", 3, 3, errors.New("permission denied"))
	r.Result("a.txt", true)
	r.Result("b.txt", false)

	want := "Skipping: /src/nested (1/3)\n" +
		"Hashing : /src/a.txt (2/3) [5 bytes]\n" +
		"Error   : /src/b.txt (3/3) permission denied\n" +
		"a.txt Match: True\n" +
		"b.txt Match: False\n"
	assert.Equal(t, want, buf.String())
}

func TestQuietReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewQuietReporter(&buf, ColorNever)

	r.Skip("/src/nested", 1, 2)
	r.Hashing("/src/a.txt", 2, 2, 5)
	r.Result("a.txt", false)

	assert.Equal(t, "a.txt Match: False\n", buf.String())
}

func TestFormatResult(t *testing.T) {
	tests := map[string]struct {
		name  string
		match bool
		want  string
	}{
		"match":       {name: "a.txt", match: true, want: "a.txt Match: True"},
		"mismatch":    {name: "b.txt", match: false, want: "b.txt Match: False"},
		"with spaces": {name: "my file.bin", match: true, want: "my file.bin Match: True"},
	}

	for tn, tt := range tests {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatResult(tt.name, tt.match))
		})
	}
}

func TestConsoleReporter_ColorAlways(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, ColorAlways)

	r.Result("a.txt", true)

	assert.Contains(t, buf.String(), "\x1b[32m")
	assert.Contains(t, buf.String(), "a.txt Match: True")
}

func TestParseColorMode(t *testing.T) {
	for _, s := range []string{"auto", "always", "never"} {
		m, err := ParseColorMode(s)
		assert.NoError(t, err)
		assert.Equal(t, ColorMode(s), m)
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestReportersImplementInterface(t *testing.T) {
	var _ Reporter = (*ConsoleReporter)(nil)
	var _ Reporter = (*QuietReporter)(nil)
	var _ Reporter = NullReporter{}
}
