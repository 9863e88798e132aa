package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/propbooks-dev/propbooks/internal/accounts"
	"github.com/propbooks-dev/propbooks/internal/config"
	"github.com/propbooks-dev/propbooks/internal/gitops"
	"github.com/propbooks-dev/propbooks/internal/importer"
	"github.com/propbooks-dev/propbooks/internal/ledger"
	"github.com/propbooks-dev/propbooks/internal/model"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts operations",
	}
	accountsCmd.AddCommand(newAccountsTreeCommand())
	accountsCmd.AddCommand(newAccountsSummaryCommand())
	accountsCmd.AddCommand(newAccountsImportCommand())
	return accountsCmd
}

func newAccountsTreeCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the account hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, err := accounts.Load(absDir)
			if err != nil {
				return err
			}

			renderForest(cmd.OutOrStdout(), svc.Tree())
			fmt.Fprintln(cmd.OutOrStdout())
			renderRollup(cmd.OutOrStdout(), svc.Rollup())
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	return cmd
}

func newAccountsSummaryCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balance totals by account type",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc, err := accounts.Load(absDir)
			if err != nil {
				return err
			}

			renderRollup(cmd.OutOrStdout(), svc.Rollup())
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	return cmd
}

func newAccountsImportCommand() *cobra.Command {
	var repoDir string
	var format string
	var all bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a chart-of-accounts export, or sweep the import directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if all {
				if len(args) > 0 {
					return fmt.Errorf("--all takes no file argument")
				}
				return runAccountsImportAll(cmd.OutOrStdout(), absDir, format)
			}
			if len(args) == 0 {
				return fmt.Errorf("a file argument or --all is required")
			}
			return runAccountsImport(cmd.OutOrStdout(), absDir, args[0], format)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	cmd.Flags().StringVar(&format, "format", "generic", "export format")
	cmd.Flags().BoolVar(&all, "all", false, "import every CSV waiting in import/ and move them to import/processed/")
	return cmd
}

func runAccountsImport(out io.Writer, repoRoot, file, format string) error {
	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (available: %s)",
			format, strings.Join(registry.Formats(), ", "))
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	incoming, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	svc, err := accounts.Load(repoRoot)
	if err != nil {
		return err
	}

	added, updated := svc.Merge(incoming)
	if err := svc.Save(repoRoot); err != nil {
		return err
	}

	if err := commitImport(repoRoot, filepath.Base(file), added, updated); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d accounts (%d added, %d updated)\n", len(incoming), added, updated)
	return nil
}

// runAccountsImportAll merges every pending CSV under import/ into the
// chart, then moves each processed file to import/processed/ so reruns
// are idempotent.
func runAccountsImportAll(out io.Writer, repoRoot, format string) error {
	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (available: %s)",
			format, strings.Join(registry.Formats(), ", "))
	}

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}

	svc, err := accounts.Load(repoRoot)
	if err != nil {
		return err
	}

	totalAdded, totalUpdated := 0, 0
	for _, fi := range files {
		f, err := os.Open(fi.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", fi.Name, err)
		}
		incoming, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", fi.Name, err)
		}
		added, updated := svc.Merge(incoming)
		totalAdded += added
		totalUpdated += updated
		fmt.Fprintf(out, "%s: %d accounts (%d added, %d updated)\n", fi.Name, len(incoming), added, updated)
	}

	if err := svc.Save(repoRoot); err != nil {
		return err
	}
	for _, fi := range files {
		if err := importer.MarkProcessed(repoRoot, fi.Name); err != nil {
			return err
		}
	}

	msg := fmt.Sprintf("%d file(s)", len(files))
	if err := commitImport(repoRoot, msg, totalAdded, totalUpdated); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d file(s) (%d added, %d updated)\n", len(files), totalAdded, totalUpdated)
	return nil
}

// commitImport auto-commits the chart when the repo config asks for it.
// A missing propbooks.yaml means no auto-commit; any other load failure is
// an error rather than a silently skipped commit.
func commitImport(repoRoot, fileName string, added, updated int) error {
	cfg, err := config.Load(filepath.Join(repoRoot, "propbooks.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Git.AutoCommit || !gitops.IsRepo(repoRoot) {
		return nil
	}

	msg := fmt.Sprintf("accounts: import %s (%d added, %d updated)", fileName, added, updated)
	if _, err := gitops.CommitPaths(repoRoot, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail, "accounts"); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

func renderForest(out io.Writer, forest []*ledger.AccountNode) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	for _, root := range forest {
		root.Walk(func(n *ledger.AccountNode, depth int) {
			indent := strings.Repeat("  ", depth)
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n",
				indent, n.Account.Code, n.Account.Name, n.Account.Balance.StringFixed(2))
		})
	}
}

func renderRollup(out io.Writer, totals map[model.AccountType]decimal.Decimal) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	for _, at := range model.AccountTypes() {
		fmt.Fprintf(tw, "%s\t%s\n", at, totals[at].StringFixed(2))
	}
}
