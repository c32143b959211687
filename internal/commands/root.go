package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/breezeport-dev/breezeport/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "breezeport",
		Short:   "Convert Zelle bank exports into Breeze donation imports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newAccountsCommand())

	return rootCmd
}
