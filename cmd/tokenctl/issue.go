package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/domain"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a token for a subject",
	Long: `Issue a token for a subject.

If --expires-in is omitted or not positive, the configured default applies.

Example:
  tokenctl issue --type CUSTOMER --subject 42 --expires-in 30m --scope orders:read`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		subject, _ := cmd.Flags().GetString("subject")
		expiresIn, _ := cmd.Flags().GetDuration("expires-in")
		rawScopes, _ := cmd.Flags().GetStringArray("scope")

		tokenType, err := domain.ParseTokenType(kind)
		if err != nil {
			return err
		}
		if subject == "" {
			return fmt.Errorf("--subject is required")
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		scopes := make([]domain.Scope, 0, len(rawScopes))
		for _, s := range rawScopes {
			scopes = append(scopes, domain.Scope(s))
		}

		token, err := e.tokens.GenerateToken(tokenType, subject, expiresIn, scopes)
		if err != nil {
			return err
		}
		e.logger.Info("token issued", zap.String("type", string(tokenType)), zap.String("subject_id", subject))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service NAME",
	Short: "Issue a long-lived service token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		token, err := e.tokens.GenerateServiceToken(args[0])
		if err != nil {
			return err
		}
		e.logger.Info("service token issued", zap.String("service", args[0]))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var anonymousCmd = &cobra.Command{
	Use:   "anonymous",
	Short: "Issue a token for a fresh anonymous subject",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		token, err := e.tokens.GenerateAnonymousToken()
		if err != nil {
			return err
		}
		e.logger.Info("anonymous token issued")
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueCmd, serviceCmd, anonymousCmd)

	issueCmd.Flags().StringP("type", "t", string(domain.TokenTypeCustomer), "token type (CUSTOMER, SERVICE, ANONYMOUS, ADMIN, EMPLOYEE)")
	issueCmd.Flags().StringP("subject", "s", "", "subject id")
	issueCmd.Flags().Duration("expires-in", 0, "token lifetime (default from AUTH_TOKEN_EXPIRES_IN_MS)")
	issueCmd.Flags().StringArray("scope", nil, "scope to grant, repeatable; values are kept verbatim")
}
