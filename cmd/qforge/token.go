package main

import (
	"fmt"
	"time"

	"quiz-forge/internal/service"

	"github.com/spf13/cobra"
)

func newTokenCmd(c *cli) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Sign a development access token with auth.jwt_secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context(), false); err != nil {
				return err
			}
			if c.cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not configured")
			}
			token, err := service.SignAccessToken(c.cfg.Auth.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			return c.writeOutput([]byte(token + "\n"))
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
