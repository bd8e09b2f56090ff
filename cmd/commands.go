package main

import (
	"context"
	"errors"
	"fmt"

	"marcha-api/cmd/bootstrap"
	"marcha-api/config"
	"marcha-api/internal/infrastructure/database"
	"marcha-api/internal/usecase"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET is required")
			}

			app, err := bootstrap.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			bootstrap.SetupLogger(cfg.App)
			return database.MigrateUp(cfg.DB)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			bootstrap.SetupLogger(cfg.App)
			return database.MigrateDown(cfg.DB, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default houses, scoring rules and administrator",
		Long: `Create the default houses and scoring rules when they are missing.

An administrator is created too when SEED_ADMIN_USERNAME and
SEED_ADMIN_PASSWORD are set. Running seed again changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMaintenance(func(ctx context.Context, cfg *config.Config, m usecase.MaintenanceUsecase) error {
				result, err := m.SeedDefaults(ctx, &usecase.SeedAdmin{
					Name:     cfg.Seed.AdminName,
					Username: cfg.Seed.AdminUsername,
					Password: cfg.Seed.AdminPassword,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "houses created: %d, rules created: %d, admin created: %t\n",
					result.HousesCreated, result.RulesCreated, result.AdminCreated)
				return nil
			})
		},
	}
}

func resetCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete patients, appointments, transactions, athletes and scores",
		Long: `Delete all operational data. Houses, scoring rules and staff
accounts are kept. Requires --yes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("reset deletes data permanently, pass --yes to continue")
			}
			return withMaintenance(func(ctx context.Context, cfg *config.Config, m usecase.MaintenanceUsecase) error {
				result, err := m.ResetData(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted scores: %d, transactions: %d, appointments: %d, athletes: %d, patients: %d\n",
					result.Scores, result.Transactions, result.Appointments, result.Athletes, result.Patients)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")

	return cmd
}

func withMaintenance(run func(ctx context.Context, cfg *config.Config, m usecase.MaintenanceUsecase) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := bootstrap.NewWorker(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return run(context.Background(), cfg, app.Maintenance())
}
