package output

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	"github.com/clockworksproduction/gamecat/pkg/errors"
)

type row struct {
	Name    string   `json:"name"`
	Primary string   `json:"primary_store"`
	Tags    []string `json:"tags"`
	Hidden  string   `json:"-"`
	secret  string
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"", "", false},
		{"wide", "", true},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML))
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatTable))
	assert.IsType(t, &TableFormatter{}, NewFormatter(""))
}

func TestJSONFormatterKeepsHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, map[string]string{"name": "Climb & <Fall>"}))
	assert.Equal(t, "{\n  \"name\": \"Climb & <Fall>\"\n}\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := []row{{Name: "DOOM", Primary: "steam", Tags: []string{"FPS"}, Hidden: "x"}}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "name: DOOM")
	assert.Contains(t, out, "primary_store: steam")
	assert.Contains(t, out, "- FPS")
	assert.NotContains(t, out, "hidden")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers:         []string{"Game", "Count"},
		Rows:            [][]string{{"DOOM", "1"}, {"Hollow Knight", "12"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "DOOM")
	assert.Contains(t, out, "Hollow Knight")
	assert.Contains(t, out, "12")
}

func TestTableFormatterReflection(t *testing.T) {
	f := &TableFormatter{}

	data := f.convertToTableData([]row{{Name: "DOOM", Primary: "steam", Tags: []string{"FPS", "Classic"}, Hidden: "x", secret: "y"}})
	require.NotNil(t, data)
	assert.Equal(t, []string{"Name", "Primary Store", "Tags"}, data.Headers)
	assert.Equal(t, [][]string{{"DOOM", "steam", "FPS, Classic"}}, data.Rows)

	single := f.convertToTableData(&row{Name: "Celeste"})
	require.NotNil(t, single)
	assert.Equal(t, []string{"Property", "Value"}, single.Headers)
	assert.Equal(t, []string{"Name", "Celeste"}, single.Rows[0])
	assert.Len(t, single.Rows, 3)

	assert.Nil(t, f.convertToTableData("plain"))
	assert.Nil(t, f.convertToTableData([]row{}))
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, "plain"))
	assert.Equal(t, "\"plain\"\n", buf.String())
}

func TestNotice(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	color.NoColor = true

	var buf bytes.Buffer
	n := Notice{
		Level:   LevelWarning,
		Message: "2 games skipped",
		Details: []string{"Celeste: no matching folder"},
	}
	require.NoError(t, n.Write(&buf))
	assert.Equal(t, "! 2 games skipped\n   Celeste: no matching folder\n", buf.String())

	buf.Reset()
	require.NoError(t, Notice{Level: LevelError, Message: "sync failed", Err: stderrors.New("boom")}.Write(&buf))
	assert.Equal(t, "✗ sync failed: boom\n", buf.String())

	buf.Reset()
	Success(&buf, "%d covers saved", 3)
	Warn(&buf, "no match for %q", "Celeste")
	Info(&buf, "dry run")
	assert.Equal(t, "✓ 3 covers saved\n! no match for \"Celeste\"\n· dry run\n", buf.String())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
}
