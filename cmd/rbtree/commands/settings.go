package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/pkg/config"
	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/version"
)

// renderFlags are the output flags shared by insert and repl. Unset flags
// keep the configured values.
type renderFlags struct {
	format string
	order  string
	title  string
	color  bool
}

func (rf *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rf.format, "format", "f", config.DefaultRenderFormat, "Output format: tree, table, yaml, json, html")
	cmd.Flags().StringVar(&rf.order, "order", config.DefaultRenderOrder, "Row order of the table format: in, pre, post")
	cmd.Flags().StringVar(&rf.title, "title", config.DefaultRenderTitle, "Title of the table and html formats")
	cmd.Flags().BoolVar(&rf.color, "color", config.DefaultRenderColor, "Color node labels in the tree format")
}

func (rf *renderFlags) resolve(cmd *cobra.Command, cfg *config.Config) (render.Format, render.Options, error) {
	format, options := cfg.RenderOptions()

	if cmd.Flags().Changed("format") {
		parsed, err := render.ParseFormat(rf.format)
		if err != nil {
			return "", render.Options{}, err
		}

		format = parsed
	}

	if cmd.Flags().Changed("order") {
		order, err := rbtree.ParseOrder(rf.order)
		if err != nil {
			return "", render.Options{}, err
		}

		options.Order = order
	}

	if cmd.Flags().Changed("title") {
		options.Title = rf.title
	}

	if cmd.Flags().Changed("color") {
		options.Color = rf.color
	}

	return format, options, nil
}

// loadConfig reads the file named by --config, or searches the default places.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		path = ""
	}

	return config.LoadConfig(path)
}

func flagBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return value
}

// initObservability starts the telemetry providers for a command. --verbose
// lowers the log level to debug and --quiet raises it to error.
func initObservability(
	cmd *cobra.Command, cfg *config.Config, mode observability.AppMode, prometheus bool,
) (observability.Providers, error) {
	obsCfg := cfg.Observability(mode)
	obsCfg.ServiceVersion = version.Version
	obsCfg.LogOutput = cmd.ErrOrStderr()
	obsCfg.PrometheusExport = obsCfg.PrometheusExport || prometheus

	switch {
	case flagBool(cmd, flagQuiet):
		obsCfg.LogLevel = slog.LevelError
	case flagBool(cmd, flagVerbose):
		obsCfg.LogLevel = slog.LevelDebug
	}

	return observability.Init(obsCfg)
}

func shutdownObservability(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
