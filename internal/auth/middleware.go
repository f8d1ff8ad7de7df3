package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/domain"
	apperrors "github.com/spec-kit/catalog-service/pkg/util"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// Principal is the authenticated caller for one request.
type Principal struct {
	LoginID   string
	Role      domain.Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the Admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// AuthMiddleware gates protected routes on a valid session token.
type AuthMiddleware struct {
	tokens  *TokenManager
	session *SessionCookie
	logger  *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, session *SessionCookie, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, session: session, logger: logger}
}

// Handle rejects the request with 401 unless the presented token is valid.
// Malformed and expired tokens get the same message.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	result := m.tokens.Validate(m.session.Token(c))
	switch result.Status {
	case StatusValid:
	case StatusAbsent:
		return apperrors.NewUnauthorized(ReasonUnauthenticated)
	default:
		m.logger.Debug("token rejected",
			zap.String("path", c.Path()),
			zap.String("reason", result.Reason),
		)
		return apperrors.NewUnauthorized("invalid or expired session")
	}

	c.Locals(principalKey, result.Principal)
	c.SetUserContext(ContextWithPrincipal(c.UserContext(), result.Principal))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller from request locals.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// ContextWithPrincipal stores p on ctx for code below the HTTP layer.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFrom reads the principal stored by ContextWithPrincipal.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return p, ok && p != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
