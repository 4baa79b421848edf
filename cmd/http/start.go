package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/klinik_backend/config"
	httpapi "github.com/Alijeyrad/klinik_backend/internal/api/http"
	"github.com/Alijeyrad/klinik_backend/pkg/database"
	"github.com/Alijeyrad/klinik_backend/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			slog.SetDefault(logs.New(cfg))

			if cfg.Database.Migrations.AutoMigrate {
				if err := database.Migrate(cfg.Database); err != nil {
					return err
				}
			}

			httpapi.Start(cfg, shutdownTimeout)
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")

	return cmd
}
