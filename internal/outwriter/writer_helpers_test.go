package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 0", precision: 0, value: 42.5, expected: "42"},
		{name: "precision 1", precision: 1, value: 7.25, expected: "7.2"},
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "negative value", precision: 1, value: -2.0, expected: "-2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, format(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"store": "S001", "percent": 88}))
	assert.Equal(t, "{\n  \"percent\": 88,\n  \"store\": \"S001\"\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	t.Run("rows are quoted when needed", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"key", "value"}, func(w *csv.Writer) error {
			return w.Write([]string{"remarks", "clean, tidy"})
		})
		require.NoError(t, err)
		assert.Equal(t, "key,value\nremarks,\"clean, tidy\"\n", buf.String())
	})

	t.Run("row error is returned", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
	})
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, []string{"Section", "Earned"}, [][]string{{"Hygiene", "12"}}))
	out := buf.String()
	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "Hygiene")
	assert.Contains(t, out, "12")
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(w io.Writer) error {
			called = true
			return nil
		}, "Test message")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("actual file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "content")
			return err
		}, "Test message")
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Test message")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Test message")
		require.Error(t, err)
	})
}

func TestWriteMarkdownTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMarkdownTable(&buf, []string{"key", "value"}, [][]string{{"a|b", "1"}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| key | value |", lines[0])
	assert.Equal(t, "|---|---|", lines[1])
	assert.Equal(t, `| a\|b | 1 |`, lines[2])
}
