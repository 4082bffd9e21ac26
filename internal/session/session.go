package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/velaflam/storefront/pkg/logger"
)

// CookieName is the browser cookie carrying the guest session ID.
const CookieName = "velaflam_session"

type contextKeyType string

const sessionIDKey contextKeyType = "session_id"

// NewID generates a guest session identifier of the form
// guest_<12 hex chars>_<unix millis>.
func NewID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble.
		panic(fmt.Sprintf("session: read random bytes: %v", err))
	}
	return fmt.Sprintf("guest_%s_%d", hex.EncodeToString(buf), time.Now().UnixMilli())
}

// Middleware ensures every request carries a session ID. An existing cookie
// is reused; otherwise a new guest ID is minted and set on the response. The
// ID is stored in the request context and attached to the request-scoped
// logger.
func Middleware(cookieTTL time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				sessionID = c.Value
			} else {
				sessionID = NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := NewContext(r.Context(), sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewContext returns a context carrying the session ID.
func NewContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// FromContext extracts the session ID from the context, or "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
