package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issuegate/auth"
	"github.com/randalmurphal/issuegate/backend"
	"github.com/randalmurphal/issuegate/config"
	"github.com/randalmurphal/issuegate/notify"
	"github.com/randalmurphal/issuegate/server"
)

type serveOptions struct {
	listen  string
	backend string
	timeout time.Duration
}

// runServer is replaced in tests.
var runServer = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.listen, "listen", "l", "", "Listen address (default 127.0.0.1:3000)")
	flags.StringVarP(&opts.backend, "backend", "b", "", "Backend: jira, github or gitlab")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Outbound request timeout (default 10s)")

	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	flags := map[string]string{
		config.KeyListenAddr: opts.listen,
		config.KeyBackend:    opts.backend,
		config.KeyLogLevel:   global.logLevel,
		config.KeyLogFormat:  global.logFormat,
	}
	if opts.timeout > 0 {
		flags[config.KeyTimeout] = opts.timeout.String()
	}

	settings, err := config.Load(global.configFile, flags)
	if err != nil {
		return explain("invalid configuration", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)

	svc, err := backend.New(settings, logger)
	if err != nil {
		return explain("cannot start backend", err)
	}

	notifying := notify.NewService(svc, notify.New(notify.Config{
		WebhookURL:      settings.Notify.WebhookURL,
		SlackWebhookURL: settings.Notify.SlackWebhookURL,
		SlackChannel:    settings.Notify.SlackChannel,
	}, logger), settings.Backend, logger)
	defer notifying.Wait()

	serverOpts := []server.Option{server.WithLogger(logger)}
	if settings.Auth.Enabled() {
		verifier, err := newVerifier(settings.Auth)
		if err != nil {
			return explain("invalid auth settings", err)
		}
		serverOpts = append(serverOpts, server.WithVerifier(verifier))
		logger.Info("inbound authentication enabled",
			slog.Bool("jwt", settings.Auth.JWTSecret != ""),
			slog.Int("api_keys", len(settings.Auth.APIKeyHashes)),
		)
	}

	logger.Info("starting issuegate", "backend", settings.Backend, "timeout", settings.Timeout)
	return runServer(cmd.Context(), server.New(notifying, serverOpts...), settings.ListenAddr)
}

func newVerifier(s config.AuthSettings) (*auth.Verifier, error) {
	var jwtCfg *auth.JWTConfig
	if s.JWTSecret != "" {
		if len(s.JWTSecret) < auth.MinSecretLength {
			return nil, auth.ErrSecretTooShort
		}
		jwtCfg = &auth.JWTConfig{Secret: []byte(s.JWTSecret), Issuer: s.JWTIssuer}
	}
	return auth.NewVerifier(jwtCfg, s.APIKeyHashes), nil
}
