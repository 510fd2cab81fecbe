package cli

import (
	"context"
	"fmt"

	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every comparison listed in the configuration file",
		Long: `Execute the comparisons listed under "comparisons:" in the configuration
file, in order. Entries inherit the "compare:" defaults and may override them.
The command stops at the first comparison that fails.`,
		Args: cobra.NoArgs,
		RunE: runConfigured,
	}

	addPolicyFlags(cmd)

	return cmd
}

func runConfigured(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}

	if len(cfg.Comparisons) == 0 {
		return fmt.Errorf("no comparisons configured")
	}

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	for i, entry := range cfg.Comparisons {
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		req, err := cfg.Request(entry)
		if err != nil {
			return fmt.Errorf("comparison %s: %w", name, requestError(err))
		}

		entryLogger := logger.WithFields(logging.Fields{"comparison": name})
		entryLogger.Debug(ctx, "Running comparison", logging.Fields{"index": i})

		outcome, err := runComparison(ctx, cmd, cfg, req, entryLogger)
		if err != nil {
			return fmt.Errorf("comparison %s: %w", name, err)
		}

		if err := outcomeError(outcome); err != nil {
			return err
		}
	}

	return nil
}
