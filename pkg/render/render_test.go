package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/redblack/pkg/layout"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
)

// 20B(10B(5R, 15R), 30B(25R, -)).
func newSampleTree() *rbtree.Tree[int] {
	tree := rbtree.New[int]()

	for _, value := range []int{10, 20, 30, 15, 25, 5} {
		tree.Insert(value)
	}

	return tree
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, format := range render.Formats() {
		parsed, err := render.ParseFormat(strings.ToUpper(string(format)))
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}

	_, err := render.ParseFormat("svg")
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	err := render.Write(&bytes.Buffer{}, newSampleTree(), render.Format("dot"), render.Options{})
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestWriteTree(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, newSampleTree(), render.FormatTree, render.Options{}))

	want := strings.Join([]string{
		"20 (B)",
		"├── 10 (B)",
		"│   ├── 5 (R)",
		"│   └── 15 (R)",
		"└── 30 (B)",
		"    ├── 25 (R)",
		"    └── ·",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteTreeColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.WriteTree(&buf, newSampleTree(), render.Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "25 (R)")
}

func TestWriteTreeEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.WriteTree(&buf, rbtree.New[int](), render.Options{}))
	assert.Equal(t, "(empty)\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := render.WriteTable(&buf, newSampleTree(), render.Options{Order: rbtree.PreOrder, Title: "sample"})
	require.NoError(t, err)

	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "SAMPLE")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "TOTAL: 6 NODES")
	assert.Contains(t, out, "HEIGHT: 3")

	var values, colors []string

	for _, line := range strings.Split(buf.String(), "\n") {
		fields := strings.Split(line, "│")
		if len(fields) < 4 {
			continue
		}

		color := strings.TrimSpace(fields[3])
		if color == "Red" || color == "Black" {
			values = append(values, strings.TrimSpace(fields[2]))
			colors = append(colors, color)
		}
	}

	assert.Equal(t, []string{"20", "10", "5", "15", "30", "25"}, values)
	assert.Equal(t, []string{"Black", "Black", "Red", "Red", "Black", "Red"}, colors)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, tree, render.FormatJSON, render.Options{}))
	assert.Contains(t, buf.String(), `"color": "red"`)

	var decoded layout.Layout[int]
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, layout.Compute(tree), decoded)
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, tree, render.FormatYAML, render.Options{}))
	assert.Contains(t, buf.String(), "color: black")

	var decoded layout.Layout[int]
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, layout.Compute(tree), decoded)
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, newSampleTree(), render.FormatHTML, render.Options{Title: "demo tree"}))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "demo tree")
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, `"25"`)
}

func TestWriteHTMLEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.WriteHTML(&buf, rbtree.New[int](), render.Options{}))
	assert.Contains(t, buf.String(), "Red-Black Tree")
}
