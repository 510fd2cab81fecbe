package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Each call resets flag values.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remotecomparer",
		Short: "Compare local files with their remote reference copies",
		Long: `remotecomparer fetches a remote file (http, https or file URI) and compares
it with a local file, ignoring line-ending style. It is meant to run as a build
step: depending on the configured policy a difference, a missing local file or
a failed download either fails the step or is reported as a warning.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
