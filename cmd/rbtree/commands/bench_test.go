package commands_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/redblack/cmd/rbtree/commands"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

func TestGenerateValues(t *testing.T) {
	t.Parallel()

	random, err := commands.GenerateValues(commands.PatternRandom, 50, 3)
	require.NoError(t, err)
	assert.Len(t, random, 50)

	expected := make([]int, 50)
	for i := range expected {
		expected[i] = i
	}

	assert.Equal(t, expected, slices.Sorted(slices.Values(random)))

	again, err := commands.GenerateValues(commands.PatternRandom, 50, 3)
	require.NoError(t, err)
	assert.Equal(t, random, again)

	ascending, err := commands.GenerateValues(commands.PatternAscending, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, ascending)

	descending, err := commands.GenerateValues(commands.PatternDescending, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 0}, descending)

	duplicates, err := commands.GenerateValues(commands.PatternDuplicates, 100, 1)
	require.NoError(t, err)
	assert.Len(t, duplicates, 100)
	assert.Less(t, slices.Max(duplicates), 10)

	_, err = commands.GenerateValues("zigzag", 4, 0)
	require.ErrorIs(t, err, commands.ErrUnknownPattern)
}

func TestBench(t *testing.T) {
	t.Parallel()

	values, err := commands.GenerateValues(commands.PatternDuplicates, 5000, 11)
	require.NoError(t, err)

	allocator := rbtree.NewAllocator[int]()

	result, err := commands.Bench(context.Background(), allocator, values, true, true)
	require.NoError(t, err)

	assert.Equal(t, 5000, result.Count)
	assert.Equal(t, int64(5000), result.Stats.Inserts)
	assert.Equal(t, 5001, result.ArenaSlots)
	assert.True(t, result.Hibernated)
	assert.Positive(t, result.HibernatedBytes)
	assert.False(t, allocator.Hibernated())
	assert.LessOrEqual(t, result.Height, 26)
}

func TestBench_BelowThreshold(t *testing.T) {
	t.Parallel()

	allocator := rbtree.NewAllocator[int]()
	allocator.HibernationThreshold = 1000

	result, err := commands.Bench(context.Background(), allocator, []int{3, 2, 1}, true, true)
	require.NoError(t, err)
	assert.False(t, result.Hibernated)
	assert.Equal(t, int64(1), result.Stats.LeftLeft)
}

func TestBenchCommand_Report(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "arena:\n  hibernation_threshold: 0\n", "",
		"bench", "--count", "2000", "--pattern", "ascending")
	require.NoError(t, err)

	assert.Contains(t, stdout, "2,000 values, ascending")
	assert.Contains(t, stdout, "rbtree bench: 2,000 values, ascending\n")
	assert.Contains(t, stdout, "Right-right")
	assert.Contains(t, stdout, "Links hibernated")
	assert.Contains(t, stdout, "Compression")
}

func TestBenchCommand_ConfigDefaults(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "bench:\n  count: 300\n", "", "bench", "--hibernate=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "300 values, random")
	assert.NotContains(t, stdout, "Links hibernated")
}

func TestBenchCommand_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "", "", "bench", "--count", "5000", "--max-arena", "1KiB")
	require.ErrorIs(t, err, commands.ErrArenaLimit)

	_, _, err = runCLI(t, "", "", "bench", "--count", "10", "--pattern", "zigzag")
	require.ErrorIs(t, err, commands.ErrUnknownPattern)

	_, _, err = runCLI(t, "", "", "bench", "--count", "0")
	require.Error(t, err)
}

func TestBenchCommand_Quiet(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "", "bench", "--count", "100", "-q")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}
