package csvexport

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	assert.Equal(t, `""`, Cell(""))
	assert.Equal(t, `"plain"`, Cell("plain"))
	assert.Equal(t, `"say ""hi"""`, Cell(`say "hi"`))
	assert.Equal(t, "\"a,b\r\nc\"", Cell("a,b\r\nc"))
}

func TestWriter(t *testing.T) {
	w := NewWriter("id", "name")
	w.Write("1", `O"Neil`)
	w.Write("2", "Smith, J")

	want := "\"id\",\"name\"\r\n\"1\",\"O\"\"Neil\"\r\n\"2\",\"Smith, J\""
	assert.Equal(t, want, string(w.Bytes()))
	assert.Equal(t, 3, w.Lines())

	// Результат читается стандартным парсером.
	records, err := csv.NewReader(strings.NewReader(string(w.Bytes()))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"1", `O"Neil`}, {"2", "Smith, J"}}, records)
}
