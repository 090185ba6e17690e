package memory

import (
	"strings"
	"sync"

	"vacanza/internal/domain/auth"
)

// TokenResolver maps static bearer tokens to principals, the collaborator
// the HTTP auth middleware consults in memory mode. The token protocol of
// the production backend is out of scope here.
type TokenResolver struct {
	mu     sync.RWMutex
	tokens map[string]auth.Principal
}

func NewTokenResolver() *TokenResolver {
	return &TokenResolver{tokens: make(map[string]auth.Principal)}
}

// Register associates a token with a principal. Role defaults to owner.
func (r *TokenResolver) Register(token, email string, role auth.Role) {
	if role == "" {
		role = auth.RoleOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = auth.Principal{Email: strings.ToLower(email), Role: role}
}

func (r *TokenResolver) Resolve(token string) (auth.Principal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.tokens[token]
	return p, ok
}
