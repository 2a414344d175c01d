// Package cmd implements the html22text command line using Cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "html22text",
	Short: "html22text converts HTML to plain text or Markdown",
	Long: `html22text turns HTML documents into clean plain text or Markdown.

Relative links to other HTML documents are rewritten to the output
extension, so a converted site keeps working as a set of text files.

Usage:
  html22text convert <html|path> [flags]
  html22text site <root> [flags]`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = Version

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .html22text.yaml in the working or home directory)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".html22text")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HTML22TEXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine.
	_ = viper.ReadInConfig()
}

// setup binds the running command's flags to viper and stores the logger in
// the command context.
func setup(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	log := newLogger(cmd.ErrOrStderr(), viper.GetBool("debug"), viper.GetBool("quiet"))
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("loaded config")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(log.WithContext(ctx))
	return nil
}

// newLogger returns a console logger on w. Colors are used only when w is a
// terminal.
func newLogger(w io.Writer, debug, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.ErrorLevel
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Execute runs the root command. Errors are printed to stderr and the
// process exits with status 1.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
