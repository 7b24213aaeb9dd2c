package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"studio/internal/adapters/http/middleware"
	calendarStore "studio/internal/adapters/storage/calendar"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/account"
	"studio/internal/metrics"
)

// Stores holds all storage dependencies.
type Stores struct {
	CalendarStore calendarStore.Store
}

// Options configures NewMux.
type Options struct {
	CSRFKey            []byte // 32 bytes; nil generates a per-process key
	Secure             bool   // production: Secure cookies and strict CSRF referer checks
	TrustedOrigins     []string
	RateLimitPerSecond int
	SlowRequest        time.Duration
	Location           *time.Location // studio wall clock; nil is UTC
	Credentials        []account.Credential
	Notifier           orchestrators.ApprovalNotifier // optional
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// credentials back both the login form and bearer tokens.
var credentials []account.Credential

// approvalNotifier is told about pending vacation requests. May be nil.
var approvalNotifier orchestrators.ApprovalNotifier

// studioLocation is the zone "today" is computed in.
var studioLocation = time.UTC

// csrfKeyOrRandom returns key, or a fresh random key when none is configured.
func csrfKeyOrRandom(key []byte) []byte {
	if len(key) == 32 {
		return key
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("csrf key: " + err.Error())
	}
	slog.Warn("csrf_key_generated", "reason", "no key configured; sessions won't survive restart")
	return key
}

// verifyToken adapts the login orchestrator to bearer authentication.
func verifyToken(token string) (string, string, error) {
	res, err := orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{Token: token}, orchestrators.LoginDeps{Credentials: credentials})
	if err != nil {
		return "", "", err
	}
	return res.Name, res.Role, nil
}

// NewMux wires HTTP handlers for the app.
// Background work started here stops when ctx is cancelled.
func NewMux(ctx context.Context, s *Stores, opts Options) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	credentials = opts.Credentials
	approvalNotifier = opts.Notifier
	studioLocation = time.UTC
	if opts.Location != nil {
		studioLocation = opts.Location
	}
	middleware.SecureCookies = opts.Secure

	mux := http.NewServeMux()
	registerRoutes(mux)

	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(middleware.CSRFOptions{
			Key:            csrfKeyOrRandom(opts.CSRFKey),
			Secure:         opts.Secure,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.Auth(sessions, middleware.NewBearerAuth(verifyToken)),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.SlowRequest, metrics.ObserveRequest),
	)
}

// registerRoutes maps paths to handlers.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusSeeOther)
	})

	mux.Handle("/calendar", middleware.RequireAuth(http.HandlerFunc(handleCalendarPage)))
	mux.Handle("/calendar/items", middleware.RequireAuth(http.HandlerFunc(handleCalendarItemsForm)))
	mux.Handle("/calendar.ics", middleware.RequireAuth(http.HandlerFunc(handleCalendarICS)))

	mux.Handle("/api/calendar/items", middleware.RequireAuth(http.HandlerFunc(handleCalendarItemsAPI)))
	mux.Handle("/api/calendar/quick", middleware.RequireAuth(http.HandlerFunc(handleCalendarQuickAdd)))
	mux.Handle("/api/calendar/view", middleware.RequireAuth(http.HandlerFunc(handleCalendarViewAPI)))
	mux.Handle("/api/calendar/creatable", middleware.RequireAuth(http.HandlerFunc(handleCalendarCreatable)))
}
