package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL is how long a login session stays valid.
const SessionTTL = 24 * time.Hour

// Session represents an authenticated caller.
type Session struct {
	Name      string
	Role      string
	CreatedAt time.Time
	// Bearer is set when the caller authenticated with an API token rather than a cookie.
	Bearer bool
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: name and role are non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(name, role string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		Name:      name,
		Role:      role,
		CreatedAt: ss.now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired; expired sessions are dropped
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		ss.Delete(token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// TokenVerifier resolves an API token to a caller name and role.
type TokenVerifier func(token string) (name, role string, err error)

// BearerCacheTTL bounds how long a verified bearer token is trusted without
// re-running the verifier. A token removed from the configured credentials
// stops working once its cache entry lapses.
const BearerCacheTTL = 5 * time.Minute

// BearerAuth checks Authorization headers against a TokenVerifier.
// Verified tokens are cached by digest for BearerCacheTTL so the slow hash
// check runs at most once per token per TTL. Rejections are never cached.
type BearerAuth struct {
	verify TokenVerifier
	mu     sync.RWMutex
	cache  map[[sha256.Size]byte]Session
	now    func() time.Time
}

// NewBearerAuth creates a BearerAuth. A nil verifier rejects every token.
func NewBearerAuth(verify TokenVerifier) *BearerAuth {
	return &BearerAuth{verify: verify, cache: make(map[[sha256.Size]byte]Session), now: time.Now}
}

// Authenticate resolves a raw bearer token.
// POST: a cached session older than BearerCacheTTL is dropped and the token re-verified
func (b *BearerAuth) Authenticate(token string) (Session, bool) {
	if b == nil || b.verify == nil || token == "" {
		return Session{}, false
	}
	key := sha256.Sum256([]byte(token))
	now := b.now()
	b.mu.RLock()
	sess, ok := b.cache[key]
	b.mu.RUnlock()
	if ok && now.Sub(sess.CreatedAt) <= BearerCacheTTL {
		return sess, true
	}
	name, role, err := b.verify(token)
	if err != nil {
		if ok {
			b.mu.Lock()
			delete(b.cache, key)
			b.mu.Unlock()
		}
		return Session{}, false
	}
	sess = Session{Name: name, Role: role, CreatedAt: now, Bearer: true}
	b.mu.Lock()
	b.cache[key] = sess
	b.mu.Unlock()
	return sess, true
}

const sessionCookieName = "studio_session"

// SecureCookies marks session cookies Secure. Set in production.
var SecureCookies = false

// bearerToken returns the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth returns middleware that resolves the caller from a bearer token or the session cookie.
// It does not block unauthenticated requests; RequireAuth does that.
func Auth(sessions *SessionStore, bearer *BearerAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r); tok != "" {
				if session, ok := bearer.Authenticate(tok); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
				next.ServeHTTP(w, r)
				return
			}
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks unauthenticated requests. API paths get 401, pages redirect to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") || bearerToken(r) != "" {
				http.Error(w, "not authenticated", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
