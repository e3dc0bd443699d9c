package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"go-task-manager/pkg/apierror"
)

// authPaths share the tighter credential budget.
var authPaths = map[string]struct{}{
	"/api/register":        {},
	"/api/login":           {},
	"/api/forgot-password": {},
}

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware gives every client IP max requests per window for
// /api. The credential endpoints are also charged to a separate, tighter
// budget. A non-positive max disables that budget.
type RateLimitMiddleware struct {
	window     time.Duration
	generalMax int
	authMax    int
	clientIP   ClientIPResolver
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

func NewRateLimitMiddleware(window time.Duration, generalMax int, authMax int, clientIP ClientIPResolver) *RateLimitMiddleware {
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &RateLimitMiddleware{
		window:     window,
		generalMax: generalMax,
		authMax:    authMax,
		clientIP:   clientIP,
		clients:    map[string]*clientLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.ToLower(r.URL.Path), "/")
		if path != "/api" && !strings.HasPrefix(path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		limiter := m.getLimiter(m.clientIP.ClientIP(r))

		budgets := []*rate.Limiter{limiter.general}
		if _, ok := authPaths[path]; ok {
			budgets = append(budgets, limiter.auth)
		}

		for _, budget := range budgets {
			if budget != nil && !budget.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(m.retryAfterSeconds(budget)))
				writeAPIError(w, apierror.RateLimited("Too many requests, please try again later"))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) retryAfterSeconds(l *rate.Limiter) int {
	interval := time.Duration(float64(time.Second) / float64(l.Limit()))
	return int(math.Ceil(interval.Seconds()))
}

func (m *RateLimitMiddleware) newLimiter(max int) *rate.Limiter {
	if max <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(m.window/time.Duration(max)), max)
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = now
		m.gcLocked(now)
		return limiter
	}

	created := &clientLimiter{
		general:  m.newLimiter(m.generalMax),
		auth:     m.newLimiter(m.authMax),
		lastSeen: now,
	}
	m.clients[clientIP] = created
	m.gcLocked(now)

	return created
}

// gcLocked forgets clients idle for a full window once the table grows.
func (m *RateLimitMiddleware) gcLocked(now time.Time) {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := now.Add(-m.window)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

// ClientIPResolver picks the address a request is attributed to. With
// TrustedHops at zero only the peer address counts. With n trusted proxies
// in front, the nth X-Forwarded-For entry from the right is the client,
// since every entry left of it was supplied by the caller.
type ClientIPResolver struct {
	TrustedHops int
}

func (c ClientIPResolver) ClientIP(r *http.Request) string {
	if c.TrustedHops > 0 {
		if hops := forwardedHops(r.Header.Values("X-Forwarded-For")); len(hops) > 0 {
			i := len(hops) - c.TrustedHops
			if i < 0 {
				i = 0
			}
			return hops[i]
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	return peerIP(r)
}

func forwardedHops(values []string) []string {
	var hops []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				hops = append(hops, ip)
			}
		}
	}
	return hops
}

func peerIP(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
