// SPDX-License-Identifier: Apache-2.0

// Command rosterctl extracts the resident duty roster from a roster image or
// its transcription and publishes it to the configured sinks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/logging"
	_ "github.com/rosterproj/roster-mcp/internal/vision/tesseract"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "Extract the resident duty roster from the daily roster sheet",
	Long: `rosterctl turns the daily hospital duty roster into a table of
shift, block, resident type and resident name.

The roster image is transcribed by a vision provider (gemini, tesseract) or
read as an existing transcription (text), split into block sections and
parsed into duty records that are written to CSV and Google Sheets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract duty records from one image or transcription and print them",
	Example: `  rosterctl extract --image roster.jpg
  rosterctl extract --text roster.txt --format json
  rosterctl extract --image roster.jpg --csv duty_schedule.csv`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the roster job once with retries, sinks and failure notification",
	Args:  cobra.NoArgs,
	RunE:  runJob,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the roster job on the configured cron schedule",
	Long: `Starts a long-running scheduler that runs the roster job at every
tick of schedule.cron (default "0 18 * * *", daily at 18:00 local time).
The image file is re-read on every run.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extract_duty_roster MCP tool over stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Print the effective marker table as YAML",
	Args:  cobra.NoArgs,
	RunE:  runMarkers,
}

var (
	imagePath  string
	textPath   string
	csvPath    string
	outFormat  string
	runAtStart bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "rosterctl.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	extractCmd.Flags().StringVar(&imagePath, "image", "", "Roster image to transcribe")
	extractCmd.Flags().StringVar(&textPath, "text", "", "Roster transcription to parse instead of an image")
	extractCmd.Flags().StringVar(&csvPath, "csv", "", "Also write the records to this CSV file")
	extractCmd.Flags().StringVarP(&outFormat, "format", "f", "table", "Output format: table, csv or json")
	extractCmd.MarkFlagsMutuallyExclusive("image", "text")
	extractCmd.MarkFlagsOneRequired("image", "text")

	runCmd.Flags().StringVar(&imagePath, "image", "", "Roster image to process (required)")
	_ = runCmd.MarkFlagRequired("image")

	scheduleCmd.Flags().StringVar(&imagePath, "image", "", "Roster image to process on every run (required)")
	scheduleCmd.Flags().BoolVar(&runAtStart, "now", false, "Also run once immediately at startup")
	_ = scheduleCmd.MarkFlagRequired("image")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(markersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
