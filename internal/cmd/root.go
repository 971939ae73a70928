// Package cmd implements the planpack command line interface.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/planpack/internal/config"
	"github.com/Iron-Ham/planpack/internal/errors"
	"github.com/Iron-Ham/planpack/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "planpack",
	Short: "Planning Pack validator",
	Long: `Planpack validates Planning Packs: feature directories holding a
tasks.json task-graph document plus supporting artifacts (kickoff prompts,
smoke scripts, gate reports).

Validation runs a fixed sequence of rule passes and reports every violation
found, one line per finding, so a whole pack can be fixed in a single
edit-validate cycle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/planpack/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable styled output")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/planpack")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PLANPACK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PLANPACK_OUTPUT_FORMAT for output.format
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 for a missing document, directory, or required argument, 1 for
// everything else (validation failures included).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errors.ErrDocumentMissing) || errors.Is(err, errors.ErrFeatureDirMissing) {
		return 2
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

// IsSilent reports whether err already produced its own output, so the
// caller must not print it again.
func IsSilent(err error) bool {
	var silent *silentError
	return errors.As(err, &silent)
}

// silentError signals a failure whose output was already provided. Used to
// set a non-zero exit code without Cobra or main printing a duplicate
// message. The wrapped cause keeps the exit-code mapping intact.
type silentError struct {
	err error
}

func (e *silentError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "validation failed"
}

func (e *silentError) Unwrap() error {
	return e.err
}

// usageError signals a missing or unusable invocation argument; it maps to
// exit status 2.
type usageError struct {
	message string
}

func (e *usageError) Error() string {
	return e.message
}

// newRunLogger builds the logger for one command run from the loaded
// configuration. Disabled logging yields a no-op logger; the caller owns
// Close.
func newRunLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.Dir, strings.ToUpper(cfg.Logging.Level))
}
