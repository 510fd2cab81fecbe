package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/remotecomparer/config.yaml, or $REMOTECOMPARER_CONFIG)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (debug logging and progress bar)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables file logging)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "", "log file format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log file level: debug, info, warn, error")
}

// CompareFlags holds compare command flags
type CompareFlags struct {
	LocalFilePath        string
	RemoteFileURI        string
	TimeoutMs            int
	FailOnFileDifference bool
	FailOnFilesNotFound  bool
	SmallWarningMessage  bool
	ProjectBase          string
	Method               string
	TempDir              string
	Bandwidth            string
	Output               string
	Progress             bool
	Report               string
	ReportFormat         string
}

var compareFlags CompareFlags

// addPolicyFlags registers the flags shared by compare and run
func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&compareFlags.TimeoutMs, "timeout-ms", 10000, "connect and read timeout in milliseconds (0 = none)")
	cmd.Flags().BoolVar(&compareFlags.FailOnFileDifference, "fail-on-file-difference", false, "fail when the files differ")
	cmd.Flags().BoolVar(&compareFlags.FailOnFilesNotFound, "fail-on-files-not-found", false, "fail when the local file is missing or the remote file cannot be fetched")
	cmd.Flags().BoolVar(&compareFlags.SmallWarningMessage, "small-warning-message", false, "print the difference warning without delimiter lines")
	cmd.Flags().StringVar(&compareFlags.ProjectBase, "project-base", "", "secondary directory searched for the local file")
	cmd.Flags().StringVar(&compareFlags.Method, "method", "", "comparison method: text, binary (default text)")
	cmd.Flags().StringVar(&compareFlags.TempDir, "temp-dir", "", "directory for the transient copy (default: system temp dir)")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit in bytes per second (e.g., \"512KiB\", \"10MB\")")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.Progress, "progress", false, "show a progress bar while fetching")
}
