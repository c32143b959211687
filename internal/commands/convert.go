package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/breezeport-dev/breezeport/internal/auditlog"
	"github.com/breezeport-dev/breezeport/internal/batch"
	"github.com/breezeport-dev/breezeport/internal/export"
	"github.com/breezeport-dev/breezeport/internal/ingest"
	"github.com/breezeport-dev/breezeport/internal/match"
	"github.com/breezeport-dev/breezeport/internal/model"
	"github.com/breezeport-dev/breezeport/internal/reconcile"
)

func newConvertCommand() *cobra.Command {
	var workDir string
	var batchName string
	var batchNumber string
	var format string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a Zelle export into a Breeze import file",
		Long: `Convert parses a bank's Zelle activity export, resolves each payer
against the account directory, and walks you through any payers it
cannot resolve. Saving an ID during that walk teaches the directory the
new name, so future batches resolve it automatically. Press Enter on an
empty line to cancel the batch; accounts saved so far are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], workDir, batchName, batchNumber, format)
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", ".", "workspace directory")
	cmd.Flags().StringVar(&batchName, "batch-name", "", "batch name (default from config)")
	cmd.Flags().StringVar(&batchNumber, "batch-number", "", "batch number (default from config)")
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or xlsx (default from config)")

	return cmd
}

func runConvert(cmd *cobra.Command, file, workDir, batchName, batchNumber, format string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	e, err := openEnv(ctx, workDir)
	if err != nil {
		return err
	}
	defer e.close()

	if batchName == "" {
		batchName = e.cfg.Batch.DefaultName
	}
	if batchNumber == "" {
		batchNumber = e.cfg.Batch.DefaultNumber
	}
	if format == "" {
		format = e.cfg.Export.Format
	}
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	rows, err := parseInput(file)
	if err != nil {
		return err
	}

	mapper := batch.NewMapper(match.New(e.dir))
	records, queue := mapper.Map(rows, batch.Params{
		BatchName:   batchName,
		BatchNumber: batchNumber,
		Fund:        e.cfg.Donation.Fund,
		Method:      e.cfg.Donation.Method,
	})
	fmt.Fprintf(out, "Parsed %d rows, %d unresolved payer(s)\n", len(records), len(queue))

	session := reconcile.NewSession(e.dir, e.store, records, queue)
	trail := []auditlog.Entry{}
	defer func() {
		if len(trail) > 0 {
			if err := auditlog.Append(e.workDir, trail); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: writing reconcile log: %v\n", err)
			}
		}
	}()

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		prompt, ok := session.Current()
		if !ok {
			break
		}
		showPrompt(out, prompt)

		id, cancelled := readAccountID(in, out)
		if cancelled {
			session.Cancel()
			trail = append(trail, logEntry(session.ID, "cancel", prompt.Name, 0, ""))
			break
		}

		err := session.Save(ctx, id)
		var perr *reconcile.PersistError
		switch {
		case errors.As(err, &perr):
			fmt.Fprintf(out, "Warning: %v (kept in memory; re-save from `accounts` later)\n", perr)
			trail = append(trail, logEntry(session.ID, "persist-error", prompt.Name, id, perr.Err.Error()))
		case errors.Is(err, reconcile.ErrInvalidAccountID):
			fmt.Fprintln(out, "Breeze IDs are positive integers; try again.")
			continue
		case err != nil:
			return err
		default:
			trail = append(trail, logEntry(session.ID, "save", prompt.Name, id, ""))
		}
	}

	if session.State() == reconcile.StateCancelled {
		fmt.Fprintln(out, "Batch cancelled. Accounts saved so far were kept; no file was produced.")
		return nil
	}

	final, _ := session.Records()
	path, err := writeArtifact(e.workDir, e.cfg.Export.Dir, format, final)
	if err != nil {
		return fmt.Errorf("writing output (directory changes are saved; rerun convert to retry): %w", err)
	}
	trail = append(trail, logEntry(session.ID, "export", "", 0, path))

	fmt.Fprintf(out, "Wrote %d records to %s\n", len(final), path)
	return nil
}

// parseInput reads and parses the bank export. Any failure here aborts
// the batch before the directory is touched.
func parseInput(file string) ([]model.BankRow, error) {
	parser, err := ingest.DefaultRegistry().ForFile(file)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return rows, nil
}

func showPrompt(out io.Writer, p reconcile.Prompt) {
	name := p.Name
	if name == "" {
		name = "(no payer name found in narration)"
	}
	fmt.Fprintf(out, "\n[%d/%d] No Breeze ID found for: %s\n", p.Position, p.Total, name)
	for _, s := range p.Suggestions {
		fmt.Fprintf(out, "  suggestion: #%d %s (%.2f)\n", s.AccountID, s.Name, s.Score)
	}
}

// readAccountID reads operator input until it gets a number or a blank
// line (cancel).
func readAccountID(in *bufio.Scanner, out io.Writer) (id int, cancelled bool) {
	for {
		fmt.Fprint(out, "Breeze ID (blank to cancel): ")
		if !in.Scan() {
			return 0, true
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			return 0, true
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Breeze IDs are positive integers; try again.")
			continue
		}
		return id, false
	}
}

func writeArtifact(workDir, exportDir, format string, records []model.DonationRecord) (string, error) {
	dir := filepath.Join(workDir, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, export.Filename(format))

	if format == "xlsx" {
		wb, err := export.BuildXLSX(records)
		if err != nil {
			return "", err
		}
		defer wb.Close()
		if err := wb.SaveAs(path); err != nil {
			return "", fmt.Errorf("saving workbook: %w", err)
		}
		return path, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, records); err != nil {
		return "", err
	}
	return path, nil
}

func logEntry(sessionID, action, name string, accountID int, details string) auditlog.Entry {
	return auditlog.Entry{
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Action:    action,
		Name:      name,
		AccountID: accountID,
		Details:   details,
	}
}
