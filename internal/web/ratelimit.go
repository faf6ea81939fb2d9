package web

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/leadboard/internal/core"
)

// ipRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than idleTTL are swept on the next request after sweepEvery.
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration

	idleTTL    time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPRateLimiter allows n requests per window per IP, with bursts of up
// to n.
func newIPRateLimiter(n int, window time.Duration) *ipRateLimiter {
	if n <= 0 {
		n = 1
	}
	return &ipRateLimiter{
		visitors:   make(map[string]*visitor),
		limit:      rate.Limit(float64(n) / window.Seconds()),
		burst:      n,
		window:     window,
		idleTTL:    2 * window,
		sweepEvery: window,
		now:        time.Now,
	}
}

func (rl *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.sweepEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// allow reports whether ip may make a request now and, if not, how long
// until it may.
func (rl *ipRateLimiter) allow(ip string) (bool, time.Duration) {
	lim := rl.limiterFor(ip)
	res := lim.ReserveN(rl.now(), 1)
	if !res.OK() {
		return false, rl.window
	}
	delay := res.DelayFrom(rl.now())
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(rl.now())
	return false, delay
}

// middleware rate limits by client IP. RemoteAddr has already been
// resolved by TrustedRealIP.
func (rl *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.allow(clientIP(r))
		if !ok {
			secs := int(retry.Seconds() + 0.999)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			respondErrorJSON(w, core.MapError(errRateLimited), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
