package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/migrations"
)

var errNoDSN = errors.New("no database configured: pass --dsn or set STORAGE_DB_DATABASE_URI")

func (a *app) openDB(ctx context.Context) (*store.DB, error) {
	if a.dsn == "" {
		return nil, errNoDSN
	}
	return store.NewConnectDB(ctx, a.dsn, a.logger)
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err = db.Migrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			version, err := migrations.Version(db.DB, db.Dialect())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s schema is at version %d\n", db.Dialect(), version)
			return nil
		},
	}
}

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		a.setAdminCmd("promote", "Grant administrator rights", true),
		a.setAdminCmd("demote", "Revoke administrator rights", false),
		a.verifyUserCmd(),
	)
	return cmd
}

// verifyUserCmd marks an account verified for operators when the
// verification mail never arrived.
func (a *app) verifyUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <email>",
		Short: "Mark the email of an account as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			users := store.NewUserRepository(db, a.logger)
			if err = users.SetVerified(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("verify %s: %w", args[0], err)
			}
			fmt.Fprintf(a.out, "%s: is_verified=true\n", args[0])
			return nil
		},
	}
}

// setAdminCmd changes the role. The server reloads the account on every
// request, so the change applies to sessions that are already open.
func (a *app) setAdminCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			users := store.NewUserRepository(db, a.logger)
			if err = users.SetAdmin(cmd.Context(), args[0], isAdmin); err != nil {
				return fmt.Errorf("%s %s: %w", use, args[0], err)
			}
			fmt.Fprintf(a.out, "%s: is_admin=%t\n", args[0], isAdmin)
			return nil
		},
	}
}

func (a *app) quotaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Manage document view quotas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset <document-id>",
		Short: "Set the view count of a document back to zero",
		Long:  "Set the view count of a document back to zero. The view history is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || documentID < 1 {
				return fmt.Errorf("invalid document id %q", args[0])
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			docs := store.NewDocumentRepository(db, a.logger)
			if err = docs.ResetViews(cmd.Context(), documentID); err != nil {
				return fmt.Errorf("reset document %d: %w", documentID, err)
			}
			fmt.Fprintf(a.out, "document %d: view count reset\n", documentID)
			return nil
		},
	})
	return cmd
}
