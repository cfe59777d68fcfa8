package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	configPath string
	serverURL  string
	logJSON    bool
	logLevel   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "taskdesk",
	Version: Version,
	Short:   "AI assistant for task and project management",
	Long: `Taskdesk drafts task descriptions, suggests priorities, proposes new
tasks and analyzes task sets. When no language model is configured every
command still answers using deterministic fallbacks.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to taskdesk.yaml")
	RootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Taskdesk API URL (default $TASKDESK_SERVER or http://localhost:8080)")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// newLogger builds the process logger. Logs go to stderr so command output stays clean.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
