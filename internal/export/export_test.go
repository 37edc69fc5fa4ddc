package export

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/squeal/internal/dispatch"
)

func sampleResult() dispatch.Result {
	cols := []string{"id", "name", "meta"}
	return dispatch.RowsResult([]dispatch.Row{
		dispatch.NewRow(cols, json.Number("1"), "Alice", map[string]any{"tier": "gold"}),
		dispatch.NewRow(cols, json.Number("2"), `Bob "The Builder", Jr.`, nil),
		dispatch.NewRow([]string{"name", "id"}, "reordered", json.Number("3")),
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	n, err := WriteCSV(&buf, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := "id,name,meta\n" +
		"1,Alice,\"{\"\"tier\"\":\"\"gold\"\"}\"\n" +
		"2,\"Bob \"\"The Builder\"\", Jr.\",\n" +
		"3,reordered,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_RoundTripsSpecialCharacters(t *testing.T) {
	values := []string{`plain`, `a,b`, `say "hi"`, `"`, `,`, "line\nbreak", ` lead`}
	rows := make([]dispatch.Row, len(values))
	for i, v := range values {
		rows[i] = dispatch.NewRow([]string{"v"}, v)
	}

	var buf bytes.Buffer
	_, err := WriteCSV(&buf, dispatch.RowsResult(rows))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(values)+1)
	for i, v := range values {
		assert.Equal(t, v, records[i+1][0])
	}
}

func TestWriteCSV_Deterministic(t *testing.T) {
	d, err := dispatch.New()
	require.NoError(t, err)
	res := d.Run("tab-4")

	var a, b bytes.Buffer
	_, err = WriteCSV(&a, res)
	require.NoError(t, err)
	_, err = WriteCSV(&b, res)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Contains(t, a.String(), `"O'Brien, ""Sam"""`)
}

func TestWriteCSV_RefusesWithoutRows(t *testing.T) {
	for _, res := range []dispatch.Result{
		dispatch.None(),
		dispatch.ErrorResult(dispatch.NotFoundMessage),
		dispatch.RowsResult(nil),
	} {
		var buf bytes.Buffer
		_, err := WriteCSV(&buf, res)
		assert.ErrorIs(t, err, ErrNoData)
		assert.Zero(t, buf.Len())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	n, err := WriteJSON(&buf, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var back []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "Alice", back[0]["name"])
	assert.Nil(t, back[1]["meta"])

	_, err = WriteJSON(&buf, dispatch.None())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestToFile_CSV(t *testing.T) {
	dir := t.TempDir()

	r, err := ToFile(sampleResult(), filepath.Join(dir, "nested", "out"), Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "nested", "out.csv"), r.FilePath)
	assert.Equal(t, 3, r.RowCount)
	assert.Positive(t, r.Bytes)

	data, err := os.ReadFile(r.FilePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,name,meta\n"))
	assert.Contains(t, FormatSuccess(r), "Exported 3 rows to CSV")
}

func TestToFile_Gzip(t *testing.T) {
	dir := t.TempDir()

	r, err := ToFile(sampleResult(), filepath.Join(dir, "out.json.gz"), Options{Format: FormatJSON, Gzip: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.json.gz"), r.FilePath)

	f, err := os.Open(r.FilePath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	assert.Len(t, rows, 3)
}

func TestToFile_NoDataCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")

	_, err := ToFile(dispatch.ErrorResult("nope"), path, Options{})

	assert.ErrorIs(t, err, ErrNoData)
	assert.NoFileExists(t, path)
}

func TestWithExt(t *testing.T) {
	tests := []struct {
		path string
		opts Options
		want string
	}{
		{"a", Options{}, "a.csv"},
		{"a.CSV", Options{}, "a.CSV"},
		{"a.csv", Options{Format: FormatJSON}, "a.csv.json"},
		{"a", Options{Gzip: true}, "a.csv.gz"},
		{"a.csv.gz", Options{Gzip: true}, "a.csv.gz"},
		{"a.CSV.GZ", Options{Gzip: true}, "a.CSV.gz"},
		{"İstanbul", Options{Gzip: true}, "İstanbul.csv.gz"},
		{"İstanbul", Options{}, "İstanbul.csv"},
		{"Straße.CSV", Options{}, "Straße.CSV"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, withExt(tt.path, tt.opts), tt.path)
	}
}

func TestDefaultFilename(t *testing.T) {
	at := time.Date(2024, 3, 5, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "query-one-20240305-150405.csv", DefaultFilename("query-one", at, FormatCSV))
	assert.Equal(t, "Tab-6-20240305-150405.json", DefaultFilename("Tab 6", at, FormatJSON))
	assert.Equal(t, "result-20240305-150405.csv", DefaultFilename("///", at, FormatCSV))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestRowCSV(t *testing.T) {
	row := dispatch.NewRow([]string{"id", "name"}, json.Number("7"), `a,"b"`)

	line, err := RowCSV(row)
	require.NoError(t, err)
	assert.Equal(t, `7,"a,""b"""`, line)
}
