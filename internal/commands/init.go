package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/propbooks-dev/propbooks/internal/accounts"
	"github.com/propbooks-dev/propbooks/internal/config"
	"github.com/propbooks-dev/propbooks/internal/gitops"
	"github.com/propbooks-dev/propbooks/internal/grants"
	"github.com/propbooks-dev/propbooks/internal/portfolio"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	dirs := []string{
		"accounts",
		"access",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write propbooks.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, "propbooks.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the starter chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write an empty entity/property catalog.
	if err := portfolio.Save(dir, nil, nil); err != nil {
		return fmt.Errorf("writing portfolio: %w", err)
	}

	// Write an empty grants file so the access surface exists from day one.
	grantsFile, err := os.Create(filepath.Join(dir, "access", "grants.csv"))
	if err != nil {
		return fmt.Errorf("creating grants file: %w", err)
	}
	if err := grants.WriteGrants(grantsFile, nil); err != nil {
		grantsFile.Close()
		return fmt.Errorf("writing grants: %w", err)
	}
	if err := grantsFile.Close(); err != nil {
		return fmt.Errorf("closing grants file: %w", err)
	}

	// Write .gitignore.
	gitignore := "exports/\n.propbooks-cache/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Initialize git and create the initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitPaths(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized books repository at %s (%s)\n", dir, hash)
	return nil
}
