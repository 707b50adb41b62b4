package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/metrics"
)

// SessionCookie is the cookie carrying the admin session id.
const SessionCookie = "admin_session"

// AuthConfig holds configuration for the auth gate middleware.
type AuthConfig struct {
	Logger    *slog.Logger
	Store     kvstore.Store
	Gate      *auth.Gate
	LoginPath string
	// Metrics may be nil; denials are then not counted.
	Metrics metrics.Recorder
}

// Auth returns the middleware guarding every protected admin route.
//
// It loads the session token from the key-value store, resolves it
// through the gate, and either injects the identity into the request
// context or turns the caller away: page navigations get a redirect to
// the login route, API calls get a 401 with the redirect target in the
// body. No protected handler runs for an unresolved identity, so an
// unauthenticated load fires zero backend calls.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFrom(r)
			if sessionID == "" {
				cfg.Logger.Warn("auth gate",
					slog.String("state", auth.Unauthenticated.String()),
					slog.String("reason", "no_session"),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Metrics.IncAuthDenied(auth.Unauthenticated.String())
				deny(w, r, cfg.LoginPath)
				return
			}

			token, _, err := cfg.Store.Get(r.Context(), sessionID, kvstore.KeyAdminToken)
			if err != nil {
				cfg.Logger.Error("session store read failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				deny(w, r, cfg.LoginPath)
				return
			}

			state, ident := cfg.Gate.Resolve(token)
			switch state {
			case auth.Valid:
				ctx := auth.ContextWithIdentity(r.Context(), ident)
				ctx = auth.ContextWithSession(ctx, sessionID)
				next.ServeHTTP(w, r.WithContext(ctx))

			case auth.Invalid:
				// A token that cannot be interpreted is as good as no
				// token: drop it and force a fresh login.
				_ = cfg.Store.Delete(r.Context(), sessionID, kvstore.KeyAdminToken)
				cfg.Logger.Warn("auth gate",
					slog.String("state", state.String()),
					slog.String("reason", "unparseable_token"),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Metrics.IncAuthDenied(state.String())
				deny(w, r, cfg.LoginPath)

			default:
				cfg.Logger.Warn("auth gate",
					slog.String("state", state.String()),
					slog.String("reason", "no_token"),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Metrics.IncAuthDenied(state.String())
				deny(w, r, cfg.LoginPath)
			}
		})
	}
}

// sessionIDFrom extracts the session id from the request cookie.
func sessionIDFrom(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// deny turns an unauthenticated caller away. API callers receive a 401
// JSON envelope naming the login route; page loads get a plain redirect.
func deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required","code":"UNAUTHENTICATED","redirect":"` + loginPath + `"}`))
		return
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}

// wantsJSON reports whether the caller is the SPA's API layer rather
// than a browser navigation.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/admin/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
