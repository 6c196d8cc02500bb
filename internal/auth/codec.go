package auth

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/token-service/internal/domain"
)

const (
	// SigningAlgorithm is the only algorithm tokens are signed and accepted with.
	SigningAlgorithm = "HS512"

	// DefaultExpiresIn is used when no positive expiry is configured, in milliseconds.
	DefaultExpiresIn int64 = 7_200_000

	// MaxExpiresIn is the expiry given to service tokens, in milliseconds.
	MaxExpiresIn int64 = math.MaxInt32
)

const (
	claimSubject      = "sub"
	claimTokenID      = "tokenId"
	claimSubjectID    = "subjectId"
	claimGenerateTime = "generateTime"
	claimExpiresIn    = "expiresIn"
	claimScopes       = "scopes"
)

var (
	// ErrInvalidToken is the only error Decode returns.
	ErrInvalidToken = errors.New("invalid token")

	ErrMissingSecret     = errors.New("token secret must not be empty")
	ErrNonPositiveExpiry = errors.New("token expiry must be positive")
	ErrUnknownTokenType  = errors.New("unknown token type")
	ErrMissingSubject    = errors.New("token subject id must not be empty")
)

// Claims is the signed claim set.
type Claims struct {
	TokenID      string         `json:"tokenId"`
	SubjectID    string         `json:"subjectId"`
	GenerateTime int64          `json:"generateTime"`
	ExpiresIn    int64          `json:"expiresIn"`
	Scopes       []domain.Scope `json:"scopes"`
	jwt.RegisteredClaims
}

// Encode signs a new token for subjectID. expiresIn is in milliseconds.
func Encode(secret string, tokenType domain.TokenType, subjectID string, expiresIn int64, scopes []domain.Scope) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	if expiresIn <= 0 {
		return "", ErrNonPositiveExpiry
	}
	if !tokenType.Valid() {
		return "", ErrUnknownTokenType
	}
	if subjectID == "" {
		return "", ErrMissingSubject
	}
	if scopes == nil {
		scopes = []domain.Scope{}
	}

	claims := &Claims{
		TokenID:      uuid.NewString(),
		SubjectID:    subjectID,
		GenerateTime: time.Now().UnixMilli(),
		ExpiresIn:    expiresIn,
		Scopes:       scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: string(tokenType),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(secret))
}

// Decode verifies tokenStr against secret and rebuilds the token.
// Every failure collapses into ErrInvalidToken.
func Decode(secret, tokenStr string) (*domain.Token, error) {
	if secret == "" || tokenStr == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithJSONNumber(),
		// registered time claims are not part of the claim set; expiry is checked by callers
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS512 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	token, valid := tokenFromClaims(claims)
	if !valid {
		return nil, ErrInvalidToken
	}
	return token, nil
}

func tokenFromClaims(claims jwt.MapClaims) (*domain.Token, bool) {
	subject, ok := stringClaim(claims, claimSubject)
	if !ok {
		return nil, false
	}
	tokenType, err := domain.ParseTokenType(subject)
	if err != nil {
		return nil, false
	}

	tokenID, ok := stringClaim(claims, claimTokenID)
	if !ok {
		return nil, false
	}
	subjectID, ok := stringClaim(claims, claimSubjectID)
	if !ok {
		return nil, false
	}

	raw, present := claims[claimGenerateTime]
	if !present {
		return nil, false
	}
	generateTime, ok := int64Value(raw)
	if !ok {
		return nil, false
	}

	var expiresIn int64
	if raw, present := claims[claimExpiresIn]; present && raw != nil {
		expiresIn, ok = int64Value(raw)
		if !ok || expiresIn <= 0 {
			return nil, false
		}
	}

	scopes, ok := scopesValue(claims[claimScopes])
	if !ok {
		return nil, false
	}

	return &domain.Token{
		TokenID:      tokenID,
		SubjectID:    subjectID,
		TokenType:    tokenType,
		GenerateTime: generateTime,
		ExpiresIn:    expiresIn,
		Scopes:       scopes,
	}, true
}

func stringClaim(claims jwt.MapClaims, name string) (string, bool) {
	s, ok := claims[name].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// int64Value accepts any integral JSON number that fits in 64 bits,
// so values written narrower than int64 widen transparently.
func int64Value(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func scopesValue(v any) ([]domain.Scope, bool) {
	if v == nil {
		return nil, true
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	scopes := make([]domain.Scope, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		scopes = append(scopes, domain.Scope(s))
	}
	return scopes, true
}
