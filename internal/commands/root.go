package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillbook-dev/tillbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tillbook",
		Short:   "Turn point-of-sale till exports into a balanced sales journal",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
