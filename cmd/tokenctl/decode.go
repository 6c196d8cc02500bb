package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/token-service/internal/domain"
)

var errInvalidToken = errors.New("invalid token")

type decodedToken struct {
	TokenID      string         `json:"tokenId"`
	SubjectID    string         `json:"subjectId"`
	TokenType    string         `json:"tokenType"`
	GenerateTime int64          `json:"generateTime"`
	ExpiresIn    int64          `json:"expiresIn,omitempty"`
	ExpiresAt    *time.Time     `json:"expiresAt,omitempty"`
	Expired      bool           `json:"expired"`
	Scopes       []domain.Scope `json:"scopes"`
}

var decodeCmd = &cobra.Command{
	Use:   "decode TOKEN",
	Short: "Verify a token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		token, err := e.tokens.ParseToken(args[0])
		if err != nil {
			return errInvalidToken
		}

		out := decodedToken{
			TokenID:      token.TokenID,
			SubjectID:    token.SubjectID,
			TokenType:    string(token.TokenType),
			GenerateTime: token.GenerateTime,
			ExpiresIn:    token.ExpiresIn,
			Expired:      token.Expired(time.Now()),
			Scopes:       token.Scopes,
		}
		if exp, ok := token.ExpiresAt(); ok {
			out.ExpiresAt = &exp
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
