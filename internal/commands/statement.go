package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainwave-dev/atm/internal/account"
	"github.com/brainwave-dev/atm/internal/statement"
)

func newStatementCommand(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "statement <user>",
		Short: "Export a user's transactions as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd, opts, args[0], outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runStatement(cmd *cobra.Command, opts *globalOptions, userID, outPath string) error {
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

	eng, err := account.New(repo, userID, account.WithLogger(log))
	if err != nil {
		return err
	}
	if !eng.Exists() {
		return fmt.Errorf("%w: %s", account.ErrNoAccount, userID)
	}

	// Prompts go to stderr so stdout carries only the CSV.
	password, err := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()).ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if !eng.Authenticate(password) {
		return account.ErrAuthFailed
	}

	records, err := eng.History()
	if err != nil {
		return err
	}

	if outPath == "" {
		if err := statement.Write(cmd.OutOrStdout(), records); err != nil {
			return fmt.Errorf("writing statement: %w", err)
		}
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := statement.Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing statement: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	return nil
}
