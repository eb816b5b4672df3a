package middlewarex

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimit applies a fixed-window per-session limit backed by redis
// INCR/EXPIRE. When redis is down the limiter fails open so the console
// stays usable.
func RateLimit(rdb *redis.Client, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			subject := "anon"
			if claims, ok := ClaimsFrom(r.Context()); ok {
				subject = strconv.FormatInt(claims.UserID, 10)
			}
			window := time.Now().Unix() / 60
			key := fmt.Sprintf("rl:console:%s:%d", subject, window)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, time.Minute)
			}
			if count > int64(perMinute) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
