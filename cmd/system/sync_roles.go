package system

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/klinik_backend/internal/repo"
	"github.com/Alijeyrad/klinik_backend/internal/service/user"
	"github.com/Alijeyrad/klinik_backend/pkg/authorize"
	"github.com/Alijeyrad/klinik_backend/pkg/database"
)

func NewSyncRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-roles",
		Short: "Rewrite every active user's clinic role policy from the users table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()

			pool, err := database.NewPool(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			client := repo.NewClientFromPool(pool)
			defer client.Close()

			acfg := authorize.FromCentralConfig(cfg.Authorization)
			acfg.PolicySyncEnabled = false
			enforcer, cleanup, err := authorize.NewEnforcer(acfg, database.NewDSN(cfg.CasbinDatabase))
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			defer cleanup(ctx)

			auth, err := authorize.NewAuthorization(enforcer, acfg.SuperadminBypass)
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}

			n, err := user.New(client, auth).SyncRoles(ctx)
			fmt.Printf("Synced %d user role(s).\n", n)
			if err != nil {
				return fmt.Errorf("some roles failed to sync: %w", err)
			}
			return nil
		},
	}

	return cmd
}
