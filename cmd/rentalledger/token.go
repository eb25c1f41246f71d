package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookbnb/rental-ledger-go/ledger/httpapi"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Mint a bearer token for a principal (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err = cfg.ValidateAuth(); err != nil {
				return err
			}

			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := httpapi.IssueToken([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, args[0], ttl, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().Duration("ttl", 0, "token lifetime, auth.token_ttl if unset")

	return cmd
}
