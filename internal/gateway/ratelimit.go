package gateway

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/demoforge/demo-orchestrator/internal/config"
	"github.com/demoforge/demo-orchestrator/internal/models"
)

// RateLimiter applies two token-bucket budgets per client IP: a general one
// covering every route and a stricter one for generation paths. Idle client
// entries are dropped after staleAfter.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBuckets

	general    config.RateLimitConfig
	generation config.RateLimitConfig

	staleAfter time.Duration
}

type clientBuckets struct {
	general    *rate.Limiter
	generation *rate.Limiter
	lastSeen   time.Time
}

// NewRateLimiter creates a limiter from the two configured budgets.
func NewRateLimiter(general, generation config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients:    make(map[string]*clientBuckets),
		general:    general,
		generation: generation,
		staleAfter: 10 * time.Minute,
	}
}

// Middleware enforces the budgets. Over-budget callers get a structured 429
// rather than being queued.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		buckets := rl.buckets(c.ClientIP())

		if !buckets.general.Allow() {
			rl.reject(c, "rate limit exceeded")
			return
		}
		if isGenerationPath(c.Request.URL.Path) && !buckets.generation.Allow() {
			rl.reject(c, "generation rate limit exceeded")
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, msg string) {
	log.Printf(`{"level":"warn","message":"Rate limited","client_ip":"%s","path":"%s"}`, c.ClientIP(), c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.NewErrorResponse(models.ErrCodeRateLimited, msg))
}

func (rl *RateLimiter) buckets(clientIP string) *clientBuckets {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.clients[clientIP]
	if !ok {
		b = &clientBuckets{
			general:    newBucket(rl.general),
			generation: newBucket(rl.generation),
			lastSeen:   now,
		}
		rl.clients[clientIP] = b
		rl.evictStaleLocked(now)
	}
	b.lastSeen = now
	return b
}

func (rl *RateLimiter) evictStaleLocked(now time.Time) {
	for ip, b := range rl.clients {
		if now.Sub(b.lastSeen) > rl.staleAfter {
			delete(rl.clients, ip)
		}
	}
}

// newBucket converts a window/max budget into a refill rate with a burst of
// the full window allowance.
func newBucket(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.Max)), cfg.Max)
}

func isGenerationPath(path string) bool {
	return strings.Contains(path, "generate")
}
