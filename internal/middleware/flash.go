package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

type ContextKey string

const FlashKey ContextKey = "flash"

// sessionFlashKey is where handlers park a message for the next page view.
const sessionFlashKey = "flash"

func SetFlash(sessionManager *scs.SessionManager, ctx context.Context, msg string) {
	sessionManager.Put(ctx, sessionFlashKey, msg)
}

// LoadFlash moves a pending flash message from the session into the request
// context on page views. It must run inside sessionManager.LoadAndSave.
func LoadFlash(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if msg := sessionManager.PopString(r.Context(), sessionFlashKey); msg != "" {
				r = r.WithContext(context.WithValue(r.Context(), FlashKey, msg))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetFlash(ctx context.Context) string {
	msg, _ := ctx.Value(FlashKey).(string)
	return msg
}
