package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/config"
	"github.com/teemow/jobagent/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// rootCmd represents the base command for the jobagent application
var rootCmd = &cobra.Command{
	Use:   "jobagent",
	Short: "Triages job application mail and tracks applications",
	Long: `jobagent fetches job-search related mail from Gmail, classifies each
message (acceptance, rejection, job alert, interview, other), files it under
a category label and hands follow-up tasks to a small team of virtual agents.

Job alerts can be turned into draft applications that move through an
approval workflow: nothing is ever submitted without an explicit approval.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = logging.New(parseLogLevel(cfg.LogLevel))
		return nil
	},
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jobagent version %s\n" .Version}}`)

	// If no subcommand is provided, run the triage command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: ./jobagent.yaml, or JOBAGENT_CONFIG)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPrepareCmd())
	rootCmd.AddCommand(newApplicationsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newJobsCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
