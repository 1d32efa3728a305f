package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-client limiter is retained.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per remote host.
type clientLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientLimiter
	now     func() time.Time
}

func (c *clientLimiters) get(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, cl := range c.clients {
		if now.Sub(cl.lastSeen) > idleLimiterTTL {
			delete(c.clients, k)
		}
	}

	cl, ok := c.clients[host]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.clients[host] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// NewClientRateLimiter returns a middleware that throttles each client host
// to rps sustained requests with the given burst. Requests over the budget
// receive 429 Too Many Requests with a Retry-After header.
//
// This guards the HTTP surface as a whole. It is separate from the fixed
// window limiter that bounds calls to the AI backend.
func NewClientRateLimiter(rps float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	limiters := &clientLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientHost(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientHost strips the port from RemoteAddr. chi's RealIP middleware,
// when wired earlier, has already replaced RemoteAddr with the forwarded IP.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
