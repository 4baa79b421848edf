package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/klinik_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/klinik_backend/cmd/system"
	"github.com/Alijeyrad/klinik_backend/pkg/constants"
)

// version is stamped at build time with -ldflags "-X ...cmd.version=".
var version = "dev"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     constants.AppName,
		Version: version,
		Short:   "Scheduling backend for multi-tenant clinics",
		Long: `klinik serves the daily schedule of a clinic: working hours and overrides,
appointments and payments, and the attention list the front desk works through.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "config.yaml", "path to the config file; its directory is searched for config.yaml")

	root.AddCommand(httpcmd.NewHTTPCommand(), systemcmd.NewSystemCommand())
	return root
}

func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", constants.AppName, err)
		os.Exit(1)
	}
}
