package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Skyenought/libstarter/pkg/logger"
)

// Environment overrides, read after .env is loaded.
const (
	envScope    = "LIBSTARTER_SCOPE"
	envLibsDir  = "LIBSTARTER_LIBS_DIR"
	envLogLevel = "LIBSTARTER_LOG_LEVEL"
)

var (
	workspaceDir string
	verbose      bool
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "libstarter",
	Short: "Scaffold TypeScript libraries in a monorepo",
	Long: `libstarter generates contract, data-access, feature, infra and provider
libraries with consistent naming, package exports and build configuration.

By default files are collected in memory and written only after the whole
library was generated successfully.`,
	SilenceUsage: true,
}

func init() {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: cannot load .env: %v\n", err)
	}
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "workspace root (defaults to the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every written file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (rotated)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger from the persistent flags.
func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	level := os.Getenv(envLogLevel)
	if level == "" {
		level = "warn"
	}
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{
		Level:  level,
		Format: "console",
		File:   logFile,
		Output: cmd.ErrOrStderr(),
	})
}

// resolveWorkspaceDir returns the --workspace flag or the working
// directory.
func resolveWorkspaceDir() (string, error) {
	if workspaceDir != "" {
		return workspaceDir, nil
	}
	return os.Getwd()
}
