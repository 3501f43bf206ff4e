package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
	"github.com/PedroFNMDEV/SextoCommit/internal/util"
)

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := uuid.NewString()
		r = r.WithContext(WithRequestID(r.Context(), rid))
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

// RequireRealm authenticates the bearer token against a single realm.
// Tokens minted for the other realm never pass, whatever their signature.
func RequireRealm(tokens *auth.TokenAuthority, realm auth.Realm) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				util.WriteError(w, http.StatusUnauthorized, "Token de acesso requerido")
				return
			}
			claims, err := tokens.Verify(realm, raw)
			if err != nil {
				util.WriteError(w, http.StatusForbidden, "Token inválido")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), *claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RateLimit applies a per-client token bucket keyed by route and IP.
// Entries idle for an hour are dropped on the next sweep.
func RateLimit(route string, perMinute int, trustProxy bool) func(http.Handler) http.Handler {
	type entry struct {
		lim  *rate.Limiter
		seen time.Time
	}
	var (
		mu      sync.Mutex
		clients = map[string]*entry{}
		swept   = time.Now()
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := route + ":" + ClientIP(r, trustProxy)
			mu.Lock()
			now := time.Now()
			if now.Sub(swept) > time.Hour {
				for k, e := range clients {
					if now.Sub(e.seen) > time.Hour {
						delete(clients, k)
					}
				}
				swept = now
			}
			e, ok := clients[key]
			if !ok {
				e = &entry{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)}
				clients[key] = e
			}
			e.seen = now
			allowed := e.lim.Allow()
			mu.Unlock()
			if !allowed {
				util.WriteError(w, http.StatusTooManyRequests, "Muitas requisições, tente novamente em instantes")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		log.Printf("request method=%s path=%s status=%d duration_ms=%d request_id=%s remote_ip=%s",
			r.Method, r.URL.Path, sr.status, time.Since(start).Milliseconds(),
			RequestID(r.Context()), ClientIP(r, false))
	})
}
