package profile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.data")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeProfile(t, "0 1 0 5\n1 2 1 5\n2 0 0 5\n9 9 9 9\n")

	s, err := profile.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 1, 2}, s.Times)
	assert.Equal(t, []int64{1, 2, 0}, s.Minor)
	assert.Equal(t, []int64{0, 1, 0}, s.Major)
	assert.Equal(t, []int64{5, 5, 5}, s.CPUUse)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, profile.Sample{Time: 1, Minor: 2, Major: 1, CPUUse: 5}, s.At(1))
}

func TestParseDiscardsLastLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"trailer with newline", "10 1 1 1\n11 1 1 1\n", 1},
		{"trailer without newline", "10 1 1 1\n11 1 1 1\n12 1", 2},
		{"single line", "10 1 1 1\n", 0},
		{"many lines", strings.Repeat("1 2 3 4\n", 50), 49},
		{"crlf terminators", "1 2 3 4\r\n5 6 7 8\r\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := profile.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Len())
			assert.Len(t, s.Minor, tt.want)
			assert.Len(t, s.Major, tt.want)
			assert.Len(t, s.CPUUse, tt.want)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"three tokens", "0 1 0\n1 1 1 1\n"},
		{"five tokens", "0 1 0 5 6\n1 1 1 1\n"},
		{"non integer", "0 x 0 5\n1 1 1 1\n"},
		{"double space", "0  1 0 5\n1 1 1 1\n"},
		{"tab separated", "0\t1\t0\t5\n1 1 1 1\n"},
		{"bad line in the middle", "0 1 0 5\n1 2.5 0 5\n2 1 1 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := profile.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrFormat), "got %v", err)
		})
	}
}

func TestParseMalformedTrailerIgnored(t *testing.T) {
	s, err := profile.Parse(strings.NewReader("0 1 0 5\ngarbage"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestFormatErrorReportsLine(t *testing.T) {
	path := writeProfile(t, "0 1 0 5\n1 2 1\n2 0 0 5\n")

	_, err := profile.ReadFile(path)
	require.Error(t, err)

	var coded errors.Error
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, errors.ErrFormat, coded.Code())
	assert.Contains(t, err.Error(), "Line:2")
	assert.Contains(t, err.Error(), path)
}

func TestReadFileEmpty(t *testing.T) {
	path := writeProfile(t, "")

	_, err := profile.ReadFile(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrEmptyInput))
}

func TestReadFileNotFound(t *testing.T) {
	_, err := profile.ReadFile(filepath.Join(t.TempDir(), "missing.data"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNotFound))
}
