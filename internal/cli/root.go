package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
	"github.com/roach88/diary/internal/config"
	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/retryx"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Quiet      bool
	Format     string // "json" | "text"
	Home       string
	Retries    uint64
	RetryDelay time.Duration

	// Getenv resolves the environment; os.Getenv when nil.
	Getenv config.Getenv

	// Prompt reads confirmation phrases; the terminal when nil.
	Prompt archive.Prompt

	// Now is the clock used by `since`; time.Now when nil.
	Now func() time.Time

	// cfg is the merged configuration, set by resolve.
	cfg config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the diary CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "diary - a personal archive of dated entries",
		Long: `A personal diary kept as an archive of dated entries and maps of content.

Entries and MOCs are written as TOML files and committed into the archive,
which keeps itself backed up after every commit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Home, "home", "", "archive home directory (default $DIARY_HOME or ~/.diary-cli)")
	cmd.PersistentFlags().Uint64Var(&opts.Retries, "retries", retryx.DefaultAttempts, "retries of failed store operations")
	cmd.PersistentFlags().DurationVar(&opts.RetryDelay, "retry-delay", retryx.DefaultDelay, "pause between retries")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCommitCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewLoadBackupCommand(opts))
	cmd.AddCommand(NewRollbackCommand(opts))
	cmd.AddCommand(NewWipeCommand(opts))
	cmd.AddCommand(NewUncommitCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewAboutCommand(opts))
	cmd.AddCommand(NewSinceCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// resolve fills every global option not set by a flag from the config
// file and environment.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	home := ""
	if flags.Changed("home") {
		home = o.Home
	}

	cfg, err := config.Load(o.getenv(), home)
	if err != nil {
		return err
	}

	if flags.Changed("verbose") {
		cfg.Verbose = o.Verbose
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.Quiet
	}
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("retries") {
		cfg.Retries = o.Retries
	}
	if flags.Changed("retry-delay") {
		cfg.RetryDelay = o.RetryDelay
	}

	if !isValidFormat(cfg.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, ValidFormats)
	}

	o.cfg = cfg
	o.Home = cfg.Home
	o.Verbose = cfg.Verbose
	o.Quiet = cfg.Quiet
	o.Format = cfg.Format
	o.Retries = cfg.Retries
	o.RetryDelay = cfg.RetryDelay
	return nil
}

func (o *RootOptions) getenv() config.Getenv {
	if o.Getenv != nil {
		return o.Getenv
	}
	return os.Getenv
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// formatter builds the output formatter for one command run.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) logger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), logging.Options{
		JSON:    o.Format == config.FormatJSON,
		Verbose: o.Verbose,
		Quiet:   o.Quiet,
	})
}

func (o *RootOptions) archiveOptions(cmd *cobra.Command) archive.Options {
	return archive.Options{
		Home:   o.Home,
		Retry:  o.cfg.RetryPolicy(),
		Logger: o.logger(cmd),
	}
}

func (o *RootOptions) prompt(cmd *cobra.Command) archive.Prompt {
	if o.Prompt != nil {
		return o.Prompt
	}
	return terminalPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())
}

// withArchive loads the archive, initialising one if missing, and runs fn.
func (o *RootOptions) withArchive(ctx context.Context, cmd *cobra.Command, fn func(a *archive.Archive) error) error {
	a, err := archive.Load(ctx, o.archiveOptions(cmd))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// withActiveArchive opens an existing archive and runs fn. Commands that
// write through the archive use it so a missing archive is reported rather
// than created.
func (o *RootOptions) withActiveArchive(ctx context.Context, cmd *cobra.Command, fn func(a *archive.Archive) error) error {
	a, err := archive.Open(ctx, o.archiveOptions(cmd))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
