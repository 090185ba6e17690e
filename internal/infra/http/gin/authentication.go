package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vacanza/internal/domain/auth"
)

// TokenResolver turns a bearer token into a principal. The memory store
// provides a static map; a production deployment plugs in whatever its
// session backend is.
type TokenResolver interface {
	Resolve(token string) (auth.Principal, bool)
}

type AuthMiddleware struct {
	Resolver TokenResolver
	Logger   *slog.Logger
}

// Handle attaches the resolved principal to the request context. Requests
// without a valid token continue anonymously; authorization happens at
// the engine.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Resolver == nil {
		c.Next()
		return
	}
	principal, ok := m.Resolver.Resolve(token)
	if !ok {
		if m.Logger != nil {
			m.Logger.Debug("unknown bearer token")
		}
		c.Next()
		return
	}
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
	c.Next()
}

func requirePrincipal(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.RequestContext{}.CurrentUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return auth.Principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
