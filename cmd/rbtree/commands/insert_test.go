package commands_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/redblack/cmd/rbtree/commands"
	"github.com/Sumatoshi-tech/redblack/pkg/layout"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/session"
)

func TestInsertCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := commands.NewInsertCommand()
	assert.Equal(t, "insert [value...]", cmd.Use)

	for _, name := range []string{"format", "order", "title", "color", "history", "verify"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestInsertCommand_JSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "", "insert", "10", "20", "30", "15", "25", "5", "--format", "json")
	require.NoError(t, err)

	var got layout.Layout[int]

	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Nodes, 6)
	assert.Len(t, got.Edges, 5)
	assert.Equal(t, 3, got.Depth)

	values := make([]int, len(got.Nodes))
	for i, placement := range got.Nodes {
		values[i] = placement.Value
	}

	assert.Equal(t, []int{5, 10, 15, 20, 25, 30}, values)
}

func TestInsertCommand_Stdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "10 20\n30\n", "insert", "--color=false", "--history")
	require.NoError(t, err)

	assert.Contains(t, stdout, "20 (B)")
	assert.Contains(t, stdout, "10 (R)")
	assert.Contains(t, stdout, "Insertion order: 10, 20, 30\n")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestInsertCommand_ConfigSelectsFormat(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "render:\n  format: yaml\n", "", "insert", "2", "1", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nodes:")

	stdout, _, err = runCLI(t, "render:\n  format: yaml\n", "", "insert", "2", "1", "3", "-f", "html")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<html")
}

func TestInsertCommand_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "", "", "insert", "1", "two")
	require.ErrorIs(t, err, session.ErrInvalidValue)

	_, _, err = runCLI(t, "", "   \n", "insert")
	require.ErrorIs(t, err, commands.ErrNoValues)

	_, _, err = runCLI(t, "", "", "insert", "1", "--format", "svg")
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestInsertCommand_VerboseLogs(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, "", "", "insert", "1", "2", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "inserted")
	assert.Contains(t, stderr, "tree built")

	_, stderr, err = runCLI(t, "", "", "insert", "1", "2", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
