package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/session"
)

// ErrNoValues is returned when insert received nothing to insert.
var ErrNoValues = errors.New("no values to insert")

// InsertCommand holds the flags of the insert command.
type InsertCommand struct {
	render  renderFlags
	history bool
	verify  bool
}

// NewInsertCommand creates the insert command.
func NewInsertCommand() *cobra.Command {
	ic := &InsertCommand{}

	cmd := &cobra.Command{
		Use:   "insert [value...]",
		Short: "Insert values and print the resulting tree",
		Long: `Insert integers in the given order and print the tree.

Without arguments the values are read from standard input, separated by
whitespace.

Examples:
  rbtree insert 10 20 30 15 25 5
  seq 1 7 | rbtree insert --format table --order pre
  rbtree insert 50 40 30 --format html > tree.html`,
		Args: cobra.ArbitraryArgs,
		RunE: ic.run,
	}

	ic.render.register(cmd)
	cmd.Flags().BoolVar(&ic.history, "history", false, "Print the insertion order after the tree")
	cmd.Flags().BoolVar(&ic.verify, "verify", true, "Check the red-black invariants before printing")

	return cmd
}

func (ic *InsertCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, options, err := ic.render.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeCLI, false)
	if err != nil {
		return err
	}

	defer shutdownObservability(providers)

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return err
	}

	sess := session.New(
		session.WithLogger(providers.Logger),
		session.WithTracer(providers.Tracer),
		session.WithMetrics(metrics),
	)

	ctx := cmd.Context()

	if len(args) == 0 {
		err = insertFrom(cmd, sess, cmd.InOrStdin())
	} else {
		for _, arg := range args {
			if _, err = sess.InsertText(ctx, arg); err != nil {
				break
			}
		}
	}

	if err != nil {
		return err
	}

	if sess.Tree().IsEmpty() {
		return ErrNoValues
	}

	if ic.verify {
		if err = sess.Tree().Validate(); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
	}

	providers.Logger.InfoContext(ctx, "tree built",
		"values", sess.Tree().Len(), "height", sess.Tree().Height(), "format", string(format))

	out := cmd.OutOrStdout()

	err = render.Write(out, sess.Tree(), format, options)
	if err != nil {
		return err
	}

	if ic.history {
		return sess.Execute(ctx, "history", out)
	}

	return nil
}

func insertFrom(cmd *cobra.Command, sess *session.Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		if _, err := sess.InsertText(cmd.Context(), strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read values: %w", err)
	}

	return nil
}
