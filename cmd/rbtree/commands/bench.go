package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/redblack/pkg/config"
	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/safeconv"
)

// Sentinel errors for the bench command.
var (
	ErrUnknownPattern = errors.New("unknown value pattern")
	ErrArenaLimit     = errors.New("arena exceeds --max-arena")
)

// Value patterns understood by --pattern.
const (
	PatternRandom     = "random"
	PatternAscending  = "ascending"
	PatternDescending = "descending"
	PatternDuplicates = "duplicates"
)

// duplicatesSpread is the average number of copies of each value in the duplicates pattern.
const duplicatesSpread = 10

// linkColumns is the number of uint32 columns Hibernate compresses per node.
const linkColumns = 4

// BenchCommand holds the flags of the bench command.
type BenchCommand struct {
	pattern   string
	maxArena  string
	count     int
	seed      int64
	hibernate bool
	verify    bool
}

// BenchResult is what one bench run measured.
type BenchResult struct {
	Stats      rbtree.Stats
	Pattern    string
	Count      int
	Height     int
	ArenaSlots int
	ArenaBytes int
	LinkBytes  int
	Insert     time.Duration

	Hibernated      bool
	HibernatedBytes int
	Hibernate       time.Duration
	Boot            time.Duration
}

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	bc := &BenchCommand{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Insert many values and report rebalancing and arena statistics",
		Long: `Insert a generated sequence of integers into a fresh tree and report the
fixup work (recolors, restructure cases, rotations), the height, the arena
footprint and, with --hibernate, the compressed size of the node links.

Examples:
  rbtree bench --count 1000000
  rbtree bench --pattern ascending --max-arena 64MiB
  rbtree bench --pattern duplicates --seed 7 --hibernate=false`,
		Args: cobra.NoArgs,
		RunE: bc.run,
	}

	cmd.Flags().IntVarP(&bc.count, "count", "n", config.DefaultBenchCount, "Number of values to insert")
	cmd.Flags().Int64Var(&bc.seed, "seed", config.DefaultBenchSeed, "Seed of the random patterns")
	cmd.Flags().StringVar(&bc.pattern, "pattern", PatternRandom, "Value pattern: random, ascending, descending, duplicates")
	cmd.Flags().StringVar(&bc.maxArena, "max-arena", config.DefaultBenchMaxArena, "Fail when the arena grows beyond this size (e.g. '64MiB')")
	cmd.Flags().BoolVar(&bc.hibernate, "hibernate", true, "Measure Hibernate and Boot of the arena")
	cmd.Flags().BoolVar(&bc.verify, "verify", true, "Check the red-black invariants after the run")

	return cmd
}

func (bc *BenchCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	bc.applyConfig(cmd, cfg)

	maxArena, err := config.BenchConfig{MaxArena: bc.maxArena}.MaxArenaBytes()
	if err != nil {
		return err
	}

	if bc.count <= 0 {
		return fmt.Errorf("%w: %d", config.ErrInvalidBenchCount, bc.count)
	}

	values, err := GenerateValues(bc.pattern, bc.count, bc.seed)
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeBench, false)
	if err != nil {
		return err
	}

	defer shutdownObservability(providers)

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return err
	}

	ctx, span := providers.Tracer.Start(cmd.Context(), "bench.run", trace.WithAttributes(
		attribute.String("bench.pattern", bc.pattern),
		attribute.Int("bench.count", bc.count),
	))
	defer span.End()

	allocator := rbtree.NewAllocator[int]()
	allocator.HibernationThreshold = cfg.Arena.HibernationThreshold

	result, err := Bench(ctx, allocator, values, bc.hibernate, bc.verify)
	if err != nil {
		span.RecordError(err)

		return err
	}

	result.Pattern = bc.pattern

	metrics.Record(ctx, result.Stats, result.Height, result.Insert)
	providers.Logger.InfoContext(ctx, "bench finished",
		"count", result.Count, "insert", result.Insert, "height", result.Height)

	if maxArena > 0 && safeconv.MustIntToUint64(result.ArenaBytes) > maxArena {
		return fmt.Errorf("%w: %s > %s", ErrArenaLimit,
			humanize.IBytes(safeconv.MustIntToUint64(result.ArenaBytes)), humanize.IBytes(maxArena))
	}

	if !flagBool(cmd, flagQuiet) {
		WriteBenchReport(cmd.OutOrStdout(), result)
	}

	return nil
}

// applyConfig lets unset flags follow the configuration.
func (bc *BenchCommand) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("count") {
		bc.count = cfg.Bench.Count
	}

	if !cmd.Flags().Changed("seed") {
		bc.seed = cfg.Bench.Seed
	}

	if !cmd.Flags().Changed("max-arena") {
		bc.maxArena = cfg.Bench.MaxArena
	}
}

// GenerateValues builds count values following pattern. The random patterns
// are reproducible for a given seed.
func GenerateValues(pattern string, count int, seed int64) ([]int, error) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible workload, not security.
	values := make([]int, count)

	switch pattern {
	case PatternRandom:
		return rng.Perm(count), nil
	case PatternAscending:
		for idx := range values {
			values[idx] = idx
		}
	case PatternDescending:
		for idx := range values {
			values[idx] = count - 1 - idx
		}
	case PatternDuplicates:
		distinct := max(count/duplicatesSpread, 1)
		for idx := range values {
			values[idx] = rng.Intn(distinct)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}

	return values, nil
}

// Bench inserts values into a tree built on allocator and measures the run.
func Bench(ctx context.Context, allocator *rbtree.Allocator[int], values []int, hibernate, verify bool) (BenchResult, error) {
	tree := rbtree.NewWithAllocator(allocator, cmp.Compare[int])

	start := time.Now()

	for _, value := range values {
		tree.Insert(value)
	}

	result := BenchResult{
		Insert:     time.Since(start),
		Stats:      tree.Stats(),
		Count:      tree.Len(),
		Height:     tree.Height(),
		ArenaSlots: allocator.Size(),
		ArenaBytes: allocator.Bytes(),
		LinkBytes:  allocator.Size() * linkColumns * 4,
	}

	if verify {
		if err := tree.Validate(); err != nil {
			return result, fmt.Errorf("verify: %w", err)
		}
	}

	if !hibernate || ctx.Err() != nil {
		return result, ctx.Err()
	}

	start = time.Now()

	if err := allocator.Hibernate(); err != nil {
		return result, err
	}

	result.Hibernate = time.Since(start)
	result.Hibernated = allocator.Hibernated()
	result.HibernatedBytes = allocator.HibernatedBytes()

	start = time.Now()

	if err := allocator.Boot(); err != nil {
		return result, err
	}

	result.Boot = time.Since(start)

	if verify {
		if err := tree.Validate(); err != nil {
			return result, fmt.Errorf("verify after boot: %w", err)
		}

		if !slices.Equal(slices.Sorted(slices.Values(values)), slices.Collect(tree.Values())) {
			return result, fmt.Errorf("verify after boot: %w", rbtree.ErrOrder)
		}
	}

	return result, nil
}

// WriteBenchReport prints result as a two-column table.
func WriteBenchReport(w io.Writer, result BenchResult) {
	fmt.Fprintf(w, "rbtree bench: %s values, %s\n", humanize.Comma(int64(result.Count)), result.Pattern)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Metric", "Value"})

	perInsert := time.Duration(0)
	if result.Count > 0 {
		perInsert = result.Insert / time.Duration(result.Count)
	}

	st := result.Stats

	tw.AppendRows([]table.Row{
		{"Insert time", result.Insert.Round(time.Microsecond).String()},
		{"Per insert", perInsert.String()},
		{"Height", result.Height},
		{"Recolors", humanize.Comma(st.Recolors)},
		{"Root recolors", humanize.Comma(st.RootRecolors)},
		{"Left-left", humanize.Comma(st.LeftLeft)},
		{"Left-right", humanize.Comma(st.LeftRight)},
		{"Right-left", humanize.Comma(st.RightLeft)},
		{"Right-right", humanize.Comma(st.RightRight)},
		{"Rotations", humanize.Comma(st.Rotations)},
	})
	tw.AppendSeparator()
	tw.AppendRows([]table.Row{
		{"Arena slots", humanize.Comma(int64(result.ArenaSlots))},
		{"Arena bytes", humanize.IBytes(safeconv.MustIntToUint64(result.ArenaBytes))},
	})

	if result.Hibernated {
		ratio := 0.0
		if result.HibernatedBytes > 0 {
			ratio = float64(result.LinkBytes) / float64(result.HibernatedBytes)
		}

		tw.AppendRows([]table.Row{
			{"Links raw", humanize.IBytes(safeconv.MustIntToUint64(result.LinkBytes))},
			{"Links hibernated", humanize.IBytes(safeconv.MustIntToUint64(result.HibernatedBytes))},
			{"Compression", humanize.FtoaWithDigits(ratio, 2) + "x"},
			{"Hibernate", result.Hibernate.Round(time.Microsecond).String()},
			{"Boot", result.Boot.Round(time.Microsecond).String()},
		})
	}

	tw.Render()
}
