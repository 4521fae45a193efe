package docs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/modules/mathfuncs"
	"github.com/specialistvlad/burstdsl/modules/timeframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	abstract := &operator.Class{Name: "abstract", Abstract: true}

	got := Collect([]*operator.Class{timeframe.ToSeconds, mathfuncs.Max, abstract, mathfuncs.Abs})

	require.Len(t, got, 3, "abstract classes are left out")
	assert.Equal(t, "abs", got[0].Name)
	assert.Equal(t, "max", got[1].Name)
	assert.Equal(t, "time_frame_to_seconds", got[2].Name)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	// Arrange
	var buf bytes.Buffer

	// Act
	err := Write(&buf, "json", Collect([]*operator.Class{timeframe.ToSeconds}))

	// Assert
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "time_frame_to_seconds", records[0]["name"])
	params, ok := records[0]["parameters"].([]any)
	require.True(t, ok)
	require.Len(t, params, 1)
	assert.Equal(t, "time_frame", params[0].(map[string]any)["name"])
}

func TestWriteHCL(t *testing.T) {
	t.Parallel()

	// Arrange
	var buf bytes.Buffer

	// Act
	err := Write(&buf, "hcl", Collect([]*operator.Class{timeframe.ToSeconds, mathfuncs.Max}))

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `operator "max" {`)
	assert.Contains(t, out, `operator "time_frame_to_seconds" {`)
	assert.Contains(t, out, `parameter "time_frame" {`)

	_, diags := hclparse.NewParser().ParseHCL(buf.Bytes(), "docs.hcl")
	assert.False(t, diags.HasErrors(), "output is valid HCL: %s", diags.Error())

	f, _ := hclparse.NewParser().ParseHCL(buf.Bytes(), "docs.hcl")
	content, _, diags := f.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "operator", LabelNames: []string{"name"}}},
	})
	require.False(t, diags.HasErrors())
	assert.Len(t, content.Blocks, 2)
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, "yaml", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown docs format "yaml"`)
}
