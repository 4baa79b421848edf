package system

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/klinik_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the databases listed in server.databases when missing",
		Long: `Connects to the "postgres" maintenance database with the main database
credentials and creates each database named in server.databases. Run it once
per environment before "system migrate".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := database.InitializeDatabases(cfg); err != nil {
				return err
			}
			cmd.Printf("databases ready: %s\n", strings.Join(cfg.Server.Databases, ", "))
			return nil
		},
	}
}
