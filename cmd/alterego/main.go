package main

import (
	"fmt"
	"os"
	"time"

	"alterego/internal/config"
	"alterego/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alterego",
	Short: "alterego - a persona chatbot with a second-opinion quality check",
	Long: `alterego answers questions on behalf of a named person using their summary
and profile. Every reply is checked by an independently configured evaluator
model; a rejected reply is revised once before it is returned.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runChat,
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	cfg = c

	// The TUI owns the terminal; only log when a file is configured
	if isInteractive(cmd) && c.Logging.File == "" {
		logging.Replace(nil)
		return nil
	}

	if err := logging.Initialize(logging.Options{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		logging.BootWarn("No config at %s, using defaults", configPath)
	}
	logging.BootDebug("alterego %s, config %s", c.Version, configPath)
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == chatCmd
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.Version = config.DefaultConfig().Version

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "alterego.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Per-turn timeout")

	askCmd.Flags().BoolVar(&showVerdict, "show-verdict", false, "Print the evaluator verdict and revision status")
	askCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the reply without markdown rendering")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	promptCmd.Flags().StringVar(&promptMessage, "message", "", "Show the prompt as mutated for this message")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(askCmd, chatCmd, serveCmd, promptCmd, notifyCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
