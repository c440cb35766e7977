package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issuegate/auth"
	"github.com/randalmurphal/issuegate/config"
)

var errSubjectRequired = errors.New("--subject is required")

type tokenOptions struct {
	subject string
	ttl     time.Duration
	scopes  []string
}

func newTokenCommand(global *globalOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.subject == "" {
				return errSubjectRequired
			}

			resolved, err := config.NewResolver(config.NewResolverConfig(global.configFile)).Resolve()
			if err != nil {
				return explain("invalid configuration", err)
			}

			token, err := auth.GenerateClientToken(auth.JWTConfig{
				Secret:         []byte(resolved.Get(config.KeyJWTSecret)),
				Issuer:         resolved.Get(config.KeyJWTIssuer),
				AccessTokenTTL: opts.ttl,
			}, opts.subject, opts.scopes...)
			if err != nil {
				return explain("cannot mint token", err)
			}

			printf(cmd, "%s\n", token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.subject, "subject", "s", "", "Token subject (client name)")
	flags.DurationVar(&opts.ttl, "ttl", auth.DefaultAccessTokenTTL, "Token lifetime")
	flags.StringSliceVar(&opts.scopes, "scope", nil, "Granted scopes (issues:read, issues:write); none grants all")

	return cmd
}
