// Package cmd provides the command-line interface for the portfolio site.
//
// Settings come from flags, PORTFOLIO_* environment variables and an
// optional .env file, in that order of precedence.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Artem18071998/portfolio/config"
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree around a fresh viper instance.
func NewRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Serve the portfolio site",
		Long: `Serves the portfolio page, the resume download and the contact form.

Contact submissions are relayed through EmailJS using the
PORTFOLIO_PUBLIC_EMAILJS_SERVICE_ID, PORTFOLIO_PUBLIC_EMAILJS_TEMPLATE_ID and
PORTFOLIO_PUBLIC_EMAILJS_PUBLIC_KEY environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("port", "p", "", "port to listen on (default 8080)")
	flags.String("db", "", "path to the SQLite database (default portfolio.db)")
	flags.String("content", "", "YAML file with the page content, watched for changes (default embedded)")
	flags.StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	_ = v.BindPFlag("port", flags.Lookup("port"))
	_ = v.BindPFlag("db_path", flags.Lookup("db"))
	_ = v.BindPFlag("content_file", flags.Lookup("content"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(newServeCmd(v), newStatsCmd(v))
	return root
}

// newLogger picks a text handler for local work and JSON once gin runs in
// release mode.
func newLogger(mode, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "":
		lvl = slog.LevelInfo
		if mode == "debug" {
			lvl = slog.LevelDebug
		}
	default:
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if mode == "release" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
