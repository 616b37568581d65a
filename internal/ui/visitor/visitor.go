// Package visitor assigns every browser a stable anonymous ID kept in a
// signed session cookie.
package visitor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "weaversite"
	idKey       = "visitor_id"
)

type ctxKey struct{}

// NewStore creates the cookie store used for visitor sessions. Browsers only
// return a Secure cookie over HTTPS, so secure must stay false when the site
// is served over plain HTTP.
func NewStore(secret []byte, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// Middleware resolves the visitor ID, issuing a new one when the cookie is
// missing or unreadable, and stores it in the request context.
func Middleware(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A tampered or stale cookie yields a fresh session and an error
			sess, err := store.Get(r, sessionName)
			if err != nil {
				logger.Debug("discarding unreadable session", "error", err)
			}
			id, _ := sess.Values[idKey].(string)
			if _, perr := uuid.Parse(id); perr != nil {
				id = uuid.NewString()
				sess.Values[idKey] = id
				if err := sess.Save(r, w); err != nil {
					logger.Warn("failed to save visitor session", "error", err)
				}
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// WithID returns a context carrying a visitor ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the visitor ID, or "" outside the middleware.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
