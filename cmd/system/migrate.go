package system

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
	"github.com/Alijeyrad/klinik_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed RBAC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if down > 0 {
				fmt.Printf("Rolling back %d migration(s).\n", down)
				if err := database.MigrateDown(cfg.Database, down); err != nil {
					return fmt.Errorf("failed to roll back migrations: %w", err)
				}
				return nil
			}

			fmt.Println("Running migrations for main DB.")
			if err := database.Migrate(cfg.Database); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Println("Running migrations for casbin DB.")
			acfg := authorize.FromCentralConfig(cfg.Authorization)
			acfg.PolicySyncEnabled = false
			enforcer, cleanup, err := authorize.NewEnforcer(acfg, database.NewDSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(context.Background())

			auth, err := authorize.NewAuthorization(enforcer, acfg.SuperadminBypass)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			slog.Info("seeding casbin policies")
			if err := authorize.SeedDefaultPolicies(context.Background(), auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")

	return cmd
}
