package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brainwave-dev/atm/internal/account"
	"github.com/brainwave-dev/atm/internal/buildinfo"
	"github.com/brainwave-dev/atm/internal/config"
	"github.com/brainwave-dev/atm/internal/gitops"
	"github.com/brainwave-dev/atm/internal/session"
	"github.com/brainwave-dev/atm/internal/store"
)

// globalOptions are the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	dataPath   string
	driver     string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand it starts the interactive ATM session.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "atm",
		Short:   "Single-user ATM account ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.FileName, "config file")
	pf.StringVar(&opts.dataPath, "data", "", "account data file (overrides storage.path)")
	pf.StringVar(&opts.driver, "driver", "", "storage driver: json or sqlite (overrides storage.driver)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newStatementCommand(opts))

	return rootCmd
}

func runSession(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	out := cmd.OutOrStdout()
	s := session.New(repo, newPrompter(cmd.InOrStdin(), out), out, session.Options{
		AllowPasswordReset: cfg.Security.AllowPasswordReset,
		EngineOptions:      []account.Option{account.WithLogger(log)},
	})
	return s.Run()
}

// load reads the config file and applies flag overrides. A relative storage
// path from the config file is resolved against the config file's directory.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.dataPath != "" {
		cfg.Storage.Path = o.dataPath
	} else if !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(filepath.Dir(o.configPath), cfg.Storage.Path)
	}
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openRepository opens the configured store, wrapped for git commits when enabled.
func openRepository(cfg *config.Config, log *slog.Logger) (store.Repository, error) {
	repo, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	log.Debug("store opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	if !cfg.Git.AutoCommit {
		return repo, nil
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	wrapped, err := gitops.NewAutoCommit(repo, cfg.Storage.Path, author, log)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("enabling git auto-commit: %w", err)
	}
	return wrapped, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// newPrompter masks passwords when in is the process's terminal.
func newPrompter(in io.Reader, out io.Writer) session.Prompter {
	if f, ok := in.(*os.File); ok {
		return session.NewTerminalPrompter(f, out)
	}
	return session.NewLinePrompter(in, out)
}
