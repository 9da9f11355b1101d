package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var sample = Result{
	Header: []string{"row", "value"},
	Rows: [][]any{
		{int64(0), "a,b"},
		{int64(1), nil},
		{int64(2), []byte{0xca, 0xfe}},
	},
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSON(false).Format(sample, &buf))
	require.Equal(t,
		`[{"row":0,"value":"a,b"},{"row":1,"value":null},{"row":2,"value":"x'cafe'"}]`+"\n",
		buf.String())

	buf.Reset()
	require.NoError(t, NewJSON(true).Format(Result{Header: []string{"a"}}, &buf))
	require.Equal(t, "[]\n", buf.String())
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSV().Format(sample, &buf))
	require.Equal(t, "row,value\n0,\"a,b\"\n1,\n2,x'cafe'\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable().Format(sample, &buf))
	out := buf.String()
	require.Contains(t, out, "row")
	require.Contains(t, out, "a,b")
	require.Contains(t, out, "NULL")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "csv", "table"} {
		f, err := ByName(name, false)
		require.NoError(t, err)
		require.Equal(t, name, f.Name())
	}
	_, err := ByName("xml", false)
	require.ErrorContains(t, err, "csv, json, table")
}
