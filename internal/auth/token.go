package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/token-service/internal/domain"
)

// Observer is notified about token issuance and verification outcomes.
type Observer interface {
	TokenIssued(tokenType domain.TokenType)
	TokenAccepted(tokenType domain.TokenType)
	TokenRejected()
}

// PolicyProvider resolves a raw bearer token to the subject it was issued to.
type PolicyProvider interface {
	CheckAuthentication(token string) (string, error)
}

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	Secret           string
	DefaultExpiresIn time.Duration
}

// TokenManager handles issuing and validating tokens with a fixed secret.
type TokenManager struct {
	secret           string
	defaultExpiresIn int64
	observer         Observer
}

// Option customizes a TokenManager.
type Option func(*TokenManager)

// WithObserver attaches an observer to the manager.
func WithObserver(o Observer) Option {
	return func(tm *TokenManager) {
		tm.observer = o
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg TokenConfig, opts ...Option) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	expiresIn := cfg.DefaultExpiresIn.Milliseconds()
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}

	tm := &TokenManager{secret: cfg.Secret, defaultExpiresIn: expiresIn}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// DefaultExpiresIn returns the expiry applied when callers pass none.
func (tm *TokenManager) DefaultExpiresIn() time.Duration {
	return time.Duration(tm.defaultExpiresIn) * time.Millisecond
}

// GenerateToken builds and signs a token for the subject.
// A non-positive expiresIn falls back to the configured default.
func (tm *TokenManager) GenerateToken(tokenType domain.TokenType, subjectID string, expiresIn time.Duration, scopes []domain.Scope) (string, error) {
	ms := expiresIn.Milliseconds()
	if ms <= 0 {
		ms = tm.defaultExpiresIn
	}
	return tm.generate(tokenType, subjectID, ms, scopes)
}

// GenerateServiceToken issues a long-lived token for an internal service.
func (tm *TokenManager) GenerateServiceToken(serviceName string) (string, error) {
	return tm.generate(domain.TokenTypeService, serviceName, MaxExpiresIn, []domain.Scope{})
}

// GenerateAnonymousToken issues a token bound to a fresh random subject.
func (tm *TokenManager) GenerateAnonymousToken() (string, error) {
	return tm.generate(domain.TokenTypeAnonymous, uuid.NewString(), tm.defaultExpiresIn, []domain.Scope{})
}

func (tm *TokenManager) generate(tokenType domain.TokenType, subjectID string, expiresIn int64, scopes []domain.Scope) (string, error) {
	token, err := Encode(tm.secret, tokenType, subjectID, expiresIn, scopes)
	if err != nil {
		return "", err
	}
	if tm.observer != nil {
		tm.observer.TokenIssued(tokenType)
	}
	return token, nil
}

// ParseToken validates a token and returns its content.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.Token, error) {
	token, err := Decode(tm.secret, tokenStr)
	if tm.observer != nil {
		if err != nil {
			tm.observer.TokenRejected()
		} else {
			tm.observer.TokenAccepted(token.TokenType)
		}
	}
	return token, err
}

// CheckAuthentication returns the subject id bound to tokenStr.
func (tm *TokenManager) CheckAuthentication(tokenStr string) (string, error) {
	token, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return token.SubjectID, nil
}
