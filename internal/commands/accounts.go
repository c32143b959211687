package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/breezeport-dev/breezeport/internal/directory"
	"github.com/breezeport-dev/breezeport/internal/ingest"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the Breeze account directory",
	}

	accountsCmd.AddCommand(newAccountsListCommand())
	accountsCmd.AddCommand(newAccountsAddCommand())
	accountsCmd.AddCommand(newAccountsEditCommand())
	accountsCmd.AddCommand(newAccountsRemoveCommand())
	accountsCmd.AddCommand(newAccountsImportCommand())
	accountsCmd.AddCommand(newAccountsExportCommand())
	accountsCmd.AddCommand(newAccountsRestoreCommand())

	return accountsCmd
}

func newAccountsListCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List accounts, optionally filtered by ID or name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			accounts := e.dir.Search(query)
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts found.")
				return nil
			}
			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\n", a.ID, strings.Join(a.Aliases, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func newAccountsAddCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add an alias to an account, creating the account if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("name must not be empty")
			}

			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			account := e.dir.Upsert(id, name)
			if err := e.store.Upsert(cmd.Context(), account); err != nil {
				return fmt.Errorf("saving account %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\n", account.ID, strings.Join(account.Aliases, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func newAccountsEditCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "edit <id> <aliases>",
		Short: "Replace an account's aliases with a comma-separated list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}

			var aliases []string
			for _, part := range strings.Split(args[1], ",") {
				if name := strings.TrimSpace(part); name != "" {
					aliases = append(aliases, name)
				}
			}
			if len(aliases) == 0 {
				return fmt.Errorf("at least one alias is required")
			}

			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.dir.ReplaceAliases(id, aliases) {
				return fmt.Errorf("account %d does not exist", id)
			}
			account, _ := e.dir.Get(id)
			if err := e.store.Upsert(cmd.Context(), account); err != nil {
				return fmt.Errorf("saving account %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\n", account.ID, strings.Join(account.Aliases, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func newAccountsRemoveCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.dir.Delete(id) {
				return fmt.Errorf("account %d does not exist", id)
			}
			if err := e.store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting account %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func newAccountsImportCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "import <roster.csv>",
		Short: "Bulk-load aliases from a Breeze ID / First Name / Last Name CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			entries, err := ingest.ParseRoster(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			touched := make(map[int]bool)
			for _, entry := range entries {
				e.dir.Upsert(entry.AccountID, entry.Name)
				touched[entry.AccountID] = true
			}
			for id := range touched {
				account, _ := e.dir.Get(id)
				if err := e.store.Upsert(cmd.Context(), account); err != nil {
					return fmt.Errorf("saving account %d: %w", id, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d aliases across %d accounts\n", len(entries), len(touched))
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func newAccountsExportCommand() *cobra.Command {
	var workDir string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the directory as JSON for backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			if outPath == "" {
				return directory.WriteJSON(cmd.OutOrStdout(), e.dir.All())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()

			if err := directory.WriteJSON(f, e.dir.All()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d accounts to %s\n", len(e.dir.All()), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func newAccountsRestoreCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Load accounts from a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			accounts, err := directory.ReadJSON(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			e, err := openEnv(cmd.Context(), workDir)
			if err != nil {
				return err
			}
			defer e.close()

			for _, a := range accounts {
				merged := e.dir.Upsert(a.ID, a.Aliases...)
				if err := e.store.Upsert(cmd.Context(), merged); err != nil {
					return fmt.Errorf("saving account %d: %w", a.ID, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d accounts\n", len(accounts))
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	return cmd
}

func parseAccountID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid account ID %q: must be a positive integer", s)
	}
	return id, nil
}
