package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propbooks-dev/propbooks/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "propbooks",
		Short:   "Plain-file books and access control for property managers",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newGrantsCommand())

	return rootCmd
}
