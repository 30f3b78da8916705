package middleware

import (
	"net/http"
	"unicode/utf8"

	"github.com/angelmondragon/minishop/api/validators"
	"github.com/angelmondragon/minishop/pkg/logger"
)

const (
	SessionKeyHeader = "X-Session-Key"
	maxSessionKeyLen = 128
)

// Session resolves the cart session key from X-Session-Key, falling back to
// defaultKey when the header is absent, blank or longer than maxSessionKeyLen
// runes.
func Session(defaultKey string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := validators.SanitizeString(r.Header.Get(SessionKeyHeader), 0)
			if key == "" || utf8.RuneCountInString(key) > maxSessionKeyLen {
				key = defaultKey
			}
			ctx := WithSessionKey(r.Context(), key)
			if logg != nil {
				ctx = logg.WithSessionKey(ctx, key)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
