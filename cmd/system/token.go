package system

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	pasetotoken "github.com/Alijeyrad/klinik_backend/pkg/paseto"
)

// NewTokenCommand mints an access token for a staff member. Sign-in lives
// outside this service, so this is how operators and tests obtain one.
func NewTokenCommand() *cobra.Command {
	var userID, clinicID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			sub := pasetotoken.Subject{UserID: uid}
			if clinicID != "" {
				cid, err := uuid.Parse(clinicID)
				if err != nil {
					return fmt.Errorf("invalid --clinic: %w", err)
				}
				sub.ClinicID = &cid
			}

			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to create token manager: %w", err)
			}
			tok, err := mgr.IssueAccess(sub)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Println(tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	cmd.Flags().StringVar(&clinicID, "clinic", "", "Default clinic id embedded in the token")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
