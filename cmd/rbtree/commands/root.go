// Package commands implements CLI command handlers for rbtree.
package commands

import (
	"github.com/spf13/cobra"
)

// Persistent flag names shared by every command.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// NewRootCommand creates the rbtree command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rbtree",
		Short: "Red-black tree workbench",
		Long: `rbtree builds arena-allocated red-black trees of integers and shows how
the insert fixup keeps them balanced.

Commands:
  insert    Insert values and print the resulting tree
  bench     Insert many values and report rebalancing and arena statistics
  repl      Interactive session
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: rbtree.yaml in ., ./config, $HOME/.config/rbtree)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(NewInsertCommand())
	rootCmd.AddCommand(NewBenchCommand())
	rootCmd.AddCommand(NewREPLCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
