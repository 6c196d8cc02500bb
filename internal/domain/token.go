package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// TokenType identifies the kind of bearer a token was issued to.
type TokenType string

const (
	TokenTypeCustomer  TokenType = "CUSTOMER"
	TokenTypeService   TokenType = "SERVICE"
	TokenTypeAnonymous TokenType = "ANONYMOUS"
	TokenTypeAdmin     TokenType = "ADMIN"
	TokenTypeEmployee  TokenType = "EMPLOYEE"
)

var tokenTypes = []TokenType{
	TokenTypeCustomer,
	TokenTypeService,
	TokenTypeAnonymous,
	TokenTypeAdmin,
	TokenTypeEmployee,
}

// TokenTypes lists every known token kind.
func TokenTypes() []TokenType {
	return slices.Clone(tokenTypes)
}

// Valid reports whether t is one of the known kinds.
func (t TokenType) Valid() bool {
	return slices.Contains(tokenTypes, t)
}

// ParseTokenType maps a signed subject value back to its kind.
// Matching is exact; unknown values are rejected.
func ParseTokenType(s string) (TokenType, error) {
	t := TokenType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown token type %q", s)
	}
	return t, nil
}

// Scope is a single capability grant carried by a token.
type Scope string

// Token is the decoded content of a signed bearer token.
// Values are produced by the auth codec and treated as read-only.
type Token struct {
	TokenID      string
	SubjectID    string
	TokenType    TokenType
	GenerateTime int64
	// ExpiresIn is the validity window in milliseconds; zero means none recorded.
	ExpiresIn int64
	Scopes    []Scope
}

// IssuedAt returns the generation time.
func (t *Token) IssuedAt() time.Time {
	return time.UnixMilli(t.GenerateTime)
}

// ExpiresAt returns the expiry instant, or false when the token carries no expiry.
func (t *Token) ExpiresAt() (time.Time, bool) {
	if t.ExpiresIn <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(t.expiryMillis()), true
}

// Expired reports whether the token is past its expiry at now.
func (t *Token) Expired(now time.Time) bool {
	if t.ExpiresIn <= 0 {
		return false
	}
	return now.UnixMilli() >= t.expiryMillis()
}

// expiryMillis saturates at math.MaxInt64 instead of wrapping.
func (t *Token) expiryMillis() int64 {
	if t.GenerateTime > 0 && t.ExpiresIn > math.MaxInt64-t.GenerateTime {
		return math.MaxInt64
	}
	return t.GenerateTime + t.ExpiresIn
}

// HasScope reports whether scope was granted.
func (t *Token) HasScope(scope Scope) bool {
	return slices.Contains(t.Scopes, scope)
}
