package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/session"
)

// REPLCommand holds the flags of the repl command.
type REPLCommand struct {
	render      renderFlags
	metricsAddr string
	prompt      string
}

// NewREPLCommand creates the interactive session command.
func NewREPLCommand() *cobra.Command {
	rc := &REPLCommand{}

	cmd := &cobra.Command{
		Use:   "repl [value...]",
		Short: "Interactive session",
		Long: `Start an interactive session over one red-black tree. The optional
arguments are inserted before the first prompt.

Type 'help' at the prompt for the list of commands.

Examples:
  rbtree repl
  rbtree repl 10 20 30 --format table
  rbtree repl --metrics-addr :9464`,
		Args: cobra.ArbitraryArgs,
		RunE: rc.run,
	}

	rc.render.register(cmd)
	cmd.Flags().StringVar(&rc.metricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /readyz on this address")
	cmd.Flags().StringVar(&rc.prompt, "prompt", session.DefaultPrompt, "Prompt printed before every line")

	return cmd
}

func (rc *REPLCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, options, err := rc.render.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("metrics-addr") {
		rc.metricsAddr = cfg.Telemetry.MetricsAddr
	}

	providers, err := initObservability(cmd, cfg, observability.ModeREPL, rc.metricsAddr != "")
	if err != nil {
		return err
	}

	defer shutdownObservability(providers)

	ctx := cmd.Context()

	if rc.metricsAddr != "" {
		diag, diagErr := observability.NewDiagnosticsServer(ctx, rc.metricsAddr, providers.MetricsHandler, providers.Logger)
		if diagErr != nil {
			return diagErr
		}

		defer func() {
			closeErr := diag.Close(context.Background())
			if closeErr != nil {
				providers.Logger.Warn("diagnostics shutdown failed", "error", closeErr)
			}
		}()
	}

	metrics, err := observability.NewTreeMetrics(providers.Meter)
	if err != nil {
		return err
	}

	allocator := rbtree.NewAllocator[int]()
	allocator.HibernationThreshold = cfg.Arena.HibernationThreshold

	sess := session.New(
		session.WithLogger(providers.Logger),
		session.WithTracer(providers.Tracer),
		session.WithMetrics(metrics),
		session.WithRender(format, options),
		session.WithAllocator(allocator),
	)

	for _, arg := range args {
		if _, err = sess.InsertText(ctx, arg); err != nil {
			return err
		}
	}

	return sess.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), rc.prompt)
}
