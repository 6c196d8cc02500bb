// Command tokenctl issues and inspects signed bearer tokens.
//
// The signing secret and default expiry come from the environment (or a
// .env file):
//
//   - AUTH_JWT_SECRET: shared HMAC secret (required unless --secret is set)
//   - AUTH_TOKEN_EXPIRES_IN_MS: default token lifetime in milliseconds
//   - LOG_LEVEL, LOG_OUTPUT: logger settings
//
// Example:
//
//	tokenctl service billing-svc
//	tokenctl issue --type CUSTOMER --subject 42 --scope orders:read
//	tokenctl decode "$TOKEN"
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:           "tokenctl",
	Short:         "Issue and inspect signed bearer tokens",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("secret", "", "signing secret (overrides AUTH_JWT_SECRET)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// env bundles what every subcommand needs.
type env struct {
	logger *zap.Logger
	tokens *auth.TokenManager
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if secret, _ := cmd.Flags().GetString("secret"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:           cfg.Auth.JWTSecret,
		DefaultExpiresIn: cfg.Auth.TokenExpiresIn(),
	})
	if err != nil {
		return nil, err
	}
	return &env{logger: logger, tokens: tokens}, nil
}
