package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/token-service/internal/domain"
)

type recordingObserver struct {
	mu       sync.Mutex
	issued   []domain.TokenType
	accepted []domain.TokenType
	rejected int
}

func (o *recordingObserver) TokenIssued(t domain.TokenType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued = append(o.issued, t)
}

func (o *recordingObserver) TokenAccepted(t domain.TokenType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.accepted = append(o.accepted, t)
}

func (o *recordingObserver) TokenRejected() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected++
}

func newTestManager(t *testing.T, opts ...Option) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(TokenConfig{Secret: testSecret, DefaultExpiresIn: 10 * time.Minute}, opts...)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager(TokenConfig{})
	assert.ErrorIs(t, err, ErrMissingSecret)

	tm, err := NewTokenManager(TokenConfig{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, tm.DefaultExpiresIn())

	tm, err = NewTokenManager(TokenConfig{Secret: testSecret, DefaultExpiresIn: -time.Second})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, tm.DefaultExpiresIn())

	assert.Equal(t, 10*time.Minute, newTestManager(t).DefaultExpiresIn())
}

func TestGenerateTokenExpiry(t *testing.T) {
	tm := newTestManager(t)

	tests := []struct {
		name      string
		expiresIn time.Duration
		want      int64
	}{
		{"explicit", 30 * time.Second, 30_000},
		{"zero uses default", 0, 600_000},
		{"negative uses default", -time.Minute, 600_000},
		{"sub-millisecond uses default", time.Microsecond, 600_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tm.GenerateToken(domain.TokenTypeCustomer, "c1", tt.expiresIn, []domain.Scope{"a"})
			require.NoError(t, err)

			token, err := tm.ParseToken(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.want, token.ExpiresIn)
			assert.Equal(t, "c1", token.SubjectID)
			assert.Equal(t, []domain.Scope{"a"}, token.Scopes)
		})
	}
}

func TestGenerateServiceToken(t *testing.T) {
	tm, err := NewTokenManager(TokenConfig{Secret: "s3cr3t"})
	require.NoError(t, err)

	encoded, err := tm.GenerateServiceToken("billing-svc")
	require.NoError(t, err)

	token, err := tm.ParseToken(encoded)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeService, token.TokenType)
	assert.Equal(t, "billing-svc", token.SubjectID)
	assert.Equal(t, MaxExpiresIn, token.ExpiresIn)
	assert.Empty(t, token.Scopes)

	other, err := NewTokenManager(TokenConfig{Secret: "wrong"})
	require.NoError(t, err)
	_, err = other.ParseToken(encoded)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAnonymousToken(t *testing.T) {
	tm := newTestManager(t)

	first, err := tm.GenerateAnonymousToken()
	require.NoError(t, err)
	second, err := tm.GenerateAnonymousToken()
	require.NoError(t, err)

	a, err := tm.ParseToken(first)
	require.NoError(t, err)
	b, err := tm.ParseToken(second)
	require.NoError(t, err)

	assert.Equal(t, domain.TokenTypeAnonymous, a.TokenType)
	assert.Equal(t, int64(600_000), a.ExpiresIn)
	assert.NotEmpty(t, a.SubjectID)
	assert.NotEqual(t, a.SubjectID, b.SubjectID)
	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestCheckAuthentication(t *testing.T) {
	tm := newTestManager(t)
	var provider PolicyProvider = tm

	encoded, err := tm.GenerateToken(domain.TokenTypeCustomer, "customer-9", 0, nil)
	require.NoError(t, err)

	subject, err := provider.CheckAuthentication(encoded)
	require.NoError(t, err)
	assert.Equal(t, "customer-9", subject)

	subject, err = provider.CheckAuthentication(encoded + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestObserverNotified(t *testing.T) {
	obs := &recordingObserver{}
	tm := newTestManager(t, WithObserver(obs))

	encoded, err := tm.GenerateServiceToken("billing-svc")
	require.NoError(t, err)
	_, err = tm.GenerateAnonymousToken()
	require.NoError(t, err)

	_, err = tm.ParseToken(encoded)
	require.NoError(t, err)
	_, err = tm.ParseToken("garbage")
	require.Error(t, err)

	assert.Equal(t, []domain.TokenType{domain.TokenTypeService, domain.TokenTypeAnonymous}, obs.issued)
	assert.Equal(t, []domain.TokenType{domain.TokenTypeService}, obs.accepted)
	assert.Equal(t, 1, obs.rejected)
}

func TestObserverNotNotifiedOnEncodeFailure(t *testing.T) {
	obs := &recordingObserver{}
	tm := newTestManager(t, WithObserver(obs))

	_, err := tm.GenerateToken(domain.TokenType("ROOT"), "x", 0, nil)
	assert.ErrorIs(t, err, ErrUnknownTokenType)
	assert.Empty(t, obs.issued)
}
