package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/domain"
	apperrors "github.com/spec-kit/token-service/pkg/util/errorutil"
)

// RequireAuthenticated ensures a principal was stored by AuthMiddleware.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireTokenType ensures the caller's token is one of the allowed kinds.
func RequireTokenType(allowed ...domain.TokenType) fiber.Handler {
	allowedSet := make(map[domain.TokenType]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Token.TokenType]; !exists {
			return apperrors.NewForbidden("token type not allowed")
		}
		return c.Next()
	}
}

// RequireScope ensures the caller's token grants scope.
func RequireScope(scope domain.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Token.HasScope(scope) {
			return apperrors.NewForbidden("missing scope")
		}
		return c.Next()
	}
}
