package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/atom-backoffice/internal/metrics"
	"github.com/magabrotheeeer/atom-backoffice/internal/migrations"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/members"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/reminders"
	"github.com/magabrotheeeer/atom-backoffice/internal/services/subscriptions"
	"github.com/magabrotheeeer/atom-backoffice/internal/storage"
)

func (e *env) open(ctx context.Context) (*config.Config, *storage.Storage, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Connect(ctx, cfg.StorageConnectionString, cfg.StorageMaxRetries, cfg.StorageRetryDelay)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func migrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema",
	}

	var steps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			cfg, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
				return err
			}
			return printVersion(cmd, db, cfg.MigrationsPath)
		},
	}
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			cfg, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Down(db.DB, cfg.MigrationsPath, steps); err != nil {
				return err
			}
			return printVersion(cmd, db, cfg.MigrationsPath)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			cfg, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			return printVersion(cmd, db, cfg.MigrationsPath)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func printVersion(cmd *cobra.Command, db *storage.Storage, path string) error {
	v, dirty, err := migrations.Version(db.DB, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", v, dirty)
	return nil
}

func expireCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Mark subscriptions past their end date as expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			cfg, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := subscriptions.NewService(db, cfg.Location(), e.logger).Expire(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscription(s)\n", n)
			return nil
		},
	}
}

func remindCmd(e *env) *cobra.Command {
	var dry bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Queue reminder emails for expiring memberships and low session packs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			cfg, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			var publisher reminders.Publisher
			if !dry {
				conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
				if err != nil {
					return err
				}
				defer conn.Close()
				ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
				if err != nil {
					return err
				}
				defer ch.Close()
				publisher = rabbitmq.NewPublisher(ch)
			}

			m := metrics.New(prometheus.NewRegistry())
			res, err := reminders.NewService(db, publisher, m, cfg.Location(), e.logger).Run(ctx, dry)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "candidates: %d, queued: %d, skipped: %d\n", res.Candidates, res.Queued, res.Skipped)
			for _, it := range res.Items {
				fmt.Fprintf(out, "  %s\t%s\tsubscription %d\n", it.Kind, it.Email, it.SubscriptionID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dry, "dry", false, "list candidates without sending")
	return cmd
}

func bootstrapAdminCmd(e *env) *cobra.Command {
	var email, pass string
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create a super_admin or promote an existing profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pass == "" {
				pass = os.Getenv("ATOM_ADMIN_PASSWORD")
			}
			ctx, cancel := signalContext()
			defer cancel()
			_, db, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := members.BootstrapAdmin(ctx, db, email, pass, e.logger)
			if err != nil {
				return err
			}
			switch {
			case res.Created:
				fmt.Fprintf(cmd.OutOrStdout(), "created super_admin %s\n", res.UserID)
			case res.Promoted:
				fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to super_admin\n", res.UserID)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "password updated for super_admin %s\n", res.UserID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&pass, "password", "", "admin password (or $ATOM_ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
