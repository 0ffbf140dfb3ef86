package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterMaxIdle    = 10 * time.Minute
)

type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimit rejects requests beyond r per second (with burst b), tracked
// per client IP. Idle entries are swept so the map stays bounded.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	go func() {
		for range time.Tick(limiterSweepEvery) {
			cutoff := time.Now().Add(-limiterMaxIdle)
			mu.Lock()
			for ip, v := range visitors {
				if v.lastSeen.Before(cutoff) {
					delete(visitors, ip)
				}
			}
			mu.Unlock()
		}
	}()

	allow := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{bucket: rate.NewLimiter(r, b)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		return v.bucket.Allow()
	}

	return func(c *gin.Context) {
		if !allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
