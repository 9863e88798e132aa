package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/propbooks-dev/propbooks/internal/access"
	"github.com/propbooks-dev/propbooks/internal/auditlog"
	"github.com/propbooks-dev/propbooks/internal/config"
	"github.com/propbooks-dev/propbooks/internal/gitops"
	"github.com/propbooks-dev/propbooks/internal/grants"
	"github.com/propbooks-dev/propbooks/internal/model"
	"github.com/propbooks-dev/propbooks/internal/portfolio"
)

func newGrantsCommand() *cobra.Command {
	grantsCmd := &cobra.Command{
		Use:   "grants",
		Short: "Access grant operations",
	}
	grantsCmd.AddCommand(newGrantsListCommand())
	grantsCmd.AddCommand(newGrantsSetCommand())
	grantsCmd.AddCommand(newGrantsDropEntityCommand())
	return grantsCmd
}

// grantsContext bundles everything a grants subcommand needs from a repo.
type grantsContext struct {
	repoRoot string
	cfg      *config.Config
	actor    model.Role
	service  *grants.Service
}

func loadGrantsContext(repoDir, actorOverride string) (*grantsContext, error) {
	repoRoot, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(repoRoot, "propbooks.yaml"))
	if err != nil {
		return nil, err
	}

	actor, err := cfg.ActorRole()
	if err != nil {
		return nil, err
	}
	if actorOverride != "" {
		actor, err = model.ParseRole(actorOverride)
		if err != nil {
			return nil, fmt.Errorf("--as: %w", err)
		}
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	return &grantsContext{
		repoRoot: repoRoot,
		cfg:      cfg,
		actor:    actor,
		service:  grants.NewService(repoRoot, access.NewResolver(catalog)),
	}, nil
}

func newGrantsListCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List access grants",
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := loadGrantsContext(repoDir, "")
			if err != nil {
				return err
			}

			all, err := gc.service.All()
			if err != nil {
				return err
			}

			renderGrants(cmd.OutOrStdout(), all)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	return cmd
}

func newGrantsSetCommand() *cobra.Command {
	var repoDir string
	var asRole string
	var role string
	var status string
	var entityIDs []string
	var propertyIDs []string

	cmd := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Create or update a user's access grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := loadGrantsContext(repoDir, asRole)
			if err != nil {
				return err
			}

			targetRole, err := model.ParseRole(role)
			if err != nil {
				return fmt.Errorf("--role: %w", err)
			}

			grantStatus := model.GrantStatus("")
			if status != "" {
				grantStatus, err = model.ParseGrantStatus(status)
				if err != nil {
					return fmt.Errorf("--status: %w", err)
				}
			}

			grant, verrs, err := gc.service.Set(grants.SetParams{
				ActorRole:   gc.actor,
				UserID:      args[0],
				Role:        targetRole,
				Status:      grantStatus,
				EntityIDs:   entityIDs,
				PropertyIDs: propertyIDs,
			})
			if err != nil {
				return err
			}
			if len(verrs) > 0 {
				for _, ve := range verrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", ve.Description)
				}
				return fmt.Errorf("grant for %s rejected with %d validation error(s)", args[0], len(verrs))
			}

			details := fmt.Sprintf("assigned %s with %d entities, %d properties",
				grant.Role, len(grant.EntityIDs), len(grant.PropertyIDs))
			if err := recordAccessChange(gc, "grant", grant.UserID, details); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to %s (%s)\n", grant.Role, grant.UserID, grant.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	cmd.Flags().StringVar(&asRole, "as", "", "act as this role instead of the configured one")
	cmd.Flags().StringVar(&role, "role", "", "role to assign (required)")
	_ = cmd.MarkFlagRequired("role")
	cmd.Flags().StringVar(&status, "status", "", "grant status (active, inactive, pending)")
	cmd.Flags().StringArrayVar(&entityIDs, "entity", nil, "entity ID in scope (repeatable)")
	cmd.Flags().StringArrayVar(&propertyIDs, "property", nil, "property ID in scope (repeatable)")

	return cmd
}

func newGrantsDropEntityCommand() *cobra.Command {
	var repoDir string
	var asRole string

	cmd := &cobra.Command{
		Use:   "drop-entity <user-id> <entity-id>",
		Short: "Remove an entity from a user's scope, cascading to its properties",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := loadGrantsContext(repoDir, asRole)
			if err != nil {
				return err
			}

			folio, err := portfolio.Load(gc.repoRoot)
			if err != nil {
				return err
			}

			grant, verrs, err := gc.service.DropEntity(gc.actor, args[0], args[1], folio.Properties())
			if err != nil {
				return err
			}
			if len(verrs) > 0 {
				for _, ve := range verrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", ve.Description)
				}
				return fmt.Errorf("dropping entity %s from %s rejected with %d validation error(s)",
					args[1], args[0], len(verrs))
			}

			details := fmt.Sprintf("removed entity %s; %d entities, %d properties remain",
				args[1], len(grant.EntityIDs), len(grant.PropertyIDs))
			if err := recordAccessChange(gc, "drop-entity", grant.UserID, details); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dropped entity %s from %s\n", args[1], grant.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	cmd.Flags().StringVar(&asRole, "as", "", "act as this role instead of the configured one")
	return cmd
}

// recordAccessChange commits the grants file (when auto-commit is on) and
// appends an audit log entry carrying the commit hash.
func recordAccessChange(gc *grantsContext, action, userID, details string) error {
	hash := ""
	if gc.cfg.Git.AutoCommit && gitops.IsRepo(gc.repoRoot) {
		var err error
		msg := fmt.Sprintf("access: %s %s", action, userID)
		hash, err = gitops.CommitPaths(gc.repoRoot, msg, gc.cfg.Git.AuthorName, gc.cfg.Git.AuthorEmail, "access")
		if err != nil {
			return fmt.Errorf("committing access change: %w", err)
		}
	}

	return auditlog.Append(gc.repoRoot, []auditlog.Entry{{
		Timestamp:  time.Now().UTC(),
		Actor:      string(gc.actor),
		Action:     action,
		UserID:     userID,
		Details:    details,
		CommitHash: hash,
	}})
}

func renderGrants(out io.Writer, all []model.AccessGrant) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "USER\tROLE\tSTATUS\tENTITIES\tPROPERTIES")
	for _, g := range all {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			g.UserID, g.Role, g.Status,
			joinOrDash(g.EntityIDs), joinOrDash(g.PropertyIDs))
	}
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}
