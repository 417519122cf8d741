package handler

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/pavelanni/learnpath/internal/model"
)

// CORS allows cross-origin API calls from origins. An empty list allows any
// origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows each client IP up to maxRequests per window, refilling
// evenly. Idle clients are forgotten until ctx is done.
func RateLimit(ctx context.Context, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	visitors := make(map[string]*visitor)
	var mu sync.Mutex

	go func() {
		expiry := max(window*3, time.Minute)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				for ip, v := range visitors {
					if time.Since(v.lastSeen) > expiry {
						delete(visitors, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	every := limitFor(maxRequests, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			mu.Lock()
			v, ok := visitors[key]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(every, maxRequests)}
				visitors[key] = v
			}
			v.lastSeen = time.Now()
			mu.Unlock()

			if !v.limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{Error: "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitFor converts maxRequests per window to a per-second refill rate.
func limitFor(maxRequests int, window time.Duration) rate.Limit {
	if maxRequests <= 0 || window <= 0 {
		return 0
	}
	return rate.Limit(float64(maxRequests) / window.Seconds())
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
