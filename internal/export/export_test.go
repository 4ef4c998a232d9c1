package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscope/internal/model"
)

func sampleLeads() []model.Lead {
	a := model.Lead{
		ID:              "a",
		Name:            "Jane Doe",
		Title:           "Director of Toxicology",
		Company:         "Moderna",
		Location:        "Cambridge, MA",
		LocationDetails: "Cambridge, MA",
		Email:           "jane.doe@moderna.com",
		Source:          model.SourceProfile,
		CompanyHQ:       "Cambridge, MA",
		Score:           90,
		ScoreReasons:    "Role Fit: 'Director of Toxicology' matches key terms (+30); Company Intent: Moderna recently funded (+20)",
	}
	a.SetCoords(42.37, -71.11)

	b := model.Lead{
		ID:              "b",
		Name:            "John Roe",
		Title:           "Professor",
		Company:         "MIT",
		Location:        "Durham, NC",
		LocationDetails: "Durham, NC",
		Email:           "john.roe@mit.com",
		Source:          model.SourcePublication,
		CompanyHQ:       model.UnknownHQ,
		Score:           55,
	}
	return []model.Lead{a, b}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" XLSX ", FormatXLSX, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
	assert.Equal(t, "application/octet-stream", Format("bin").ContentType())
}

func TestRow(t *testing.T) {
	row := Row(sampleLeads()[1])
	require.Len(t, row, len(Columns))
	assert.Equal(t, []string{"55", "John Roe", "Professor", "MIT", "Durham, NC", "john.roe@mit.com", "", "PubMed"}, row)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleLeads()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "90", records[1][0])
	assert.Contains(t, records[1][6], "; ")
	assert.Equal(t, "LinkedIn", records[1][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "score,name,title,company,location_details,email,score_reasons,source\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleLeads()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := make([]string, 0, len(Columns))
	for _, c := range sheet.Rows[0].Cells {
		header = append(header, c.String())
	}
	assert.Equal(t, Columns, header)

	score, err := sheet.Rows[1].Cells[0].Int()
	require.NoError(t, err)
	assert.Equal(t, 90, score)
	assert.Equal(t, "Jane Doe", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "PubMed", sheet.Rows[2].Cells[7].String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLeads()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.InDelta(t, 42.37, got[0]["lat"], 1e-9)
	assert.Nil(t, got[1]["lat"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleLeads()))

	var got []model.Lead
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Jane Doe", got[0].Name)
	assert.Equal(t, model.SourcePublication, got[1].Source)
	assert.Nil(t, got[1].Lat)
}

func TestWrite_Dispatch(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatXLSX, FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, sampleLeads()), string(f))
		assert.NotZero(t, buf.Len())
	}

	err := Write(&bytes.Buffer{}, "bin", nil)
	require.Error(t, err)
}
