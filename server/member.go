package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/services"
	"github.com/devilmonastery/trainerhub/internal/pkg/logger"
	"github.com/devilmonastery/trainerhub/migrations"
)

func newMemberCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Member management commands",
		Long:  "Commands for managing member accounts",
	}

	cmd.AddCommand(newMemberCreateCommand(configPath))
	cmd.AddCommand(newMemberAuditCommand(configPath))

	return cmd
}

func newMemberCreateCommand(configPath *string) *cobra.Command {
	var (
		email    string
		password string
		clientID string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member account",
		Long: `Create an identity at the configured identity provider and a member profile
for the given client. If the profile cannot be stored the identity is removed again.`,
		Example: `  server member create --email a@example.com --password secret123 --client-id c1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.WithCommand(slog.Default(), "member create")
			app, err := newApp(ctx, *configPath, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.db.RunMigrations(migrations.FS); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			repos := app.db.Repositories()
			svc := services.NewProvisioningService(app.identities, repos.Members, repos.Audit)

			profile, err := svc.Provision(ctx, services.ProvisionRequest{
				Email:    email,
				Password: password,
				ClientID: clientID,
			})
			if err != nil {
				var perr *services.ProvisionError
				if errors.As(err, &perr) {
					if id, orphaned := perr.OrphanedIdentity(); orphaned {
						return fmt.Errorf("%w (identity %s could not be removed and must be deleted by hand)", err, id)
					}
				}
				return err
			}

			log.Info("member created",
				"profile_id", profile.ID,
				"identity_id", profile.IdentityID,
				"email", profile.Email,
				"client_id", profile.ClientID)
			fmt.Fprintf(cmd.OutOrStdout(), "created member %s (identity %s)\n", profile.ID, profile.IdentityID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Member email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Member password (required)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Owning client ID (required)")

	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("client-id")

	return cmd
}

func newMemberAuditCommand(configPath *string) *cobra.Command {
	var (
		identityID string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail of an identity",
		Long: `List audit entries recorded against an identity, newest first.

An identity.compensation_failed entry means the identity was left behind after a
failed provisioning and still exists at the identity provider.`,
		Example: `  server member audit --identity-id 9f1c6a2e-0000-4000-8000-000000000001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer app.Close()

			logs, err := app.db.Repositories().Audit.ListByResource(cmd.Context(), entities.ResourceIdentity, identityID, limit)
			if err != nil {
				return fmt.Errorf("failed to list audit logs: %w", err)
			}

			if writeAuditTrail(cmd.OutOrStdout(), identityID, logs) {
				logger.WithCommand(slog.Default(), "member audit").
					Warn("identity is orphaned", "orphaned_identity_id", identityID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identityID, "identity-id", "", "Identity ID to inspect (required)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to show")

	cmd.MarkFlagRequired("identity-id")

	return cmd
}

// writeAuditTrail prints logs and reports whether the newest compensation
// entry says the identity could not be removed.
func writeAuditTrail(w io.Writer, identityID string, logs []*entities.AuditLog) bool {
	if len(logs) == 0 {
		fmt.Fprintf(w, "No audit entries for identity %s\n", identityID)
		return false
	}

	orphaned := false
	seenCompensation := false
	fmt.Fprintf(w, "\nFound %d audit entries for identity %s:\n\n", len(logs), identityID)
	for _, entry := range logs {
		if entry.IsCompensation() && !seenCompensation {
			seenCompensation = true
			orphaned = entry.Action == entities.ActionCompensationFailed
		}

		fmt.Fprintf(w, "Action:        %s\n", entry.Action)
		fmt.Fprintf(w, "Created:       %s\n", entry.CreatedAt.Format(time.RFC3339))
		if entry.ActorID != nil {
			fmt.Fprintf(w, "Actor:         %s\n", *entry.ActorID)
		}
		if email, ok := entry.Metadata["email"]; ok {
			fmt.Fprintf(w, "Email:         %v\n", email)
		}
		if entry.ErrorMsg != nil {
			fmt.Fprintf(w, "Error:         %s\n", *entry.ErrorMsg)
		}
		fmt.Fprintln(w)
	}

	if orphaned {
		fmt.Fprintf(w, "Identity %s is ORPHANED: delete it at the identity provider by hand.\n", identityID)
	}
	return orphaned
}
