package cli

import (
	"context"
	"fmt"

	"github.com/sdejongh/remotecomparer/pkg/config"
	"github.com/sdejongh/remotecomparer/pkg/output"
	"github.com/spf13/cobra"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a local file with a remote file",
		Long: `Fetch a remote file and compare it with a local file, line by line.
Line-ending style is ignored. Depending on the fail flags, a missing file,
a failed download or a difference either fails the command (exit code 1)
or is reported as a warning.`,
		Example: `  remotecomparer compare --local-file-path .editorconfig \
    --remote-file-uri https://example.com/shared/.editorconfig --fail-on-file-difference`,
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	cmd.Flags().StringVarP(&compareFlags.LocalFilePath, "local-file-path", "l", "", "local file path (required)")
	cmd.Flags().StringVarP(&compareFlags.RemoteFileURI, "remote-file-uri", "r", "", "remote file URI (required)")
	addPolicyFlags(cmd)
	cmd.Flags().StringVar(&compareFlags.Report, "report", "", "write the outcome report to file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "outcome report format: human, json")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}

	req, err := cfg.Request(config.ComparisonEntry{
		LocalFilePath: compareFlags.LocalFilePath,
		RemoteFileURI: compareFlags.RemoteFileURI,
	})
	if err != nil {
		return requestError(err)
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	outcome, err := runComparison(ctx, cmd, cfg, req, logger)
	if err != nil {
		return err
	}

	// Write outcome report if requested
	if compareFlags.Report != "" {
		if err := output.WriteOutcomeReport(outcome, compareFlags.Report, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write outcome report: %w", err)
		}
	}

	return outcomeError(outcome)
}
