package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/RishiKendai/verbatim/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// callerKey holds the authenticated caller in the gin context
const callerKey = "caller"

// JWTAuthMiddleware validates HMAC-signed bearer tokens and records the caller
// named by the api_key claim, or by sub when api_key is absent.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			abortUnauthorized(c, "Bearer token required")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(tokenString, claims, keyFunc); err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected token")
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		caller, _ := claims["api_key"].(string)
		if caller == "" {
			caller, _ = claims.GetSubject()
		}
		if caller == "" {
			abortUnauthorized(c, "Token does not name a caller")
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error: msg,
		Code:  "UNAUTHORIZED",
	})
}

// LimitClass selects which budget a route draws from.
type LimitClass string

const (
	// LimitCompare covers routes that start a comparison.
	LimitCompare LimitClass = "compare"
	// LimitDefault covers reads and document uploads.
	LimitDefault LimitClass = "default"
)

type bucketKey struct {
	caller string
	class  LimitClass
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller and class. A non-positive
// rate disables limiting for that class. Buckets idle for longer than
// idleTTL are dropped.
type RateLimiter struct {
	mu        sync.Mutex
	limits    map[LimitClass]float64
	buckets   map[bucketKey]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter with separate rates for comparisons and
// everything else. Bursts are twice the rate.
func NewRateLimiter(defaultRPS, compareRPS float64) *RateLimiter {
	return &RateLimiter{
		limits: map[LimitClass]float64{
			LimitDefault: defaultRPS,
			LimitCompare: compareRPS,
		},
		buckets: make(map[bucketKey]*bucket),
		idleTTL: time.Hour,
		now:     time.Now,
	}
}

// Allow reports whether caller may make one more request of class.
func (rl *RateLimiter) Allow(caller string, class LimitClass) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	key := bucketKey{caller: caller, class: class}
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: newLimiter(rl.limits[class])}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Len returns the number of live buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) sweep(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.idleTTL {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimitMiddleware charges each request to the caller's bucket for class.
// Unauthenticated requests are keyed by client IP.
func RateLimitMiddleware(limiter *RateLimiter, class LimitClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetString(callerKey)
		if caller == "" {
			caller = c.ClientIP()
		}

		if !limiter.Allow(caller, class) {
			metrics.RateLimited.WithLabelValues(string(class)).Inc()
			log.Warn().Str("caller", caller).Str("class", string(class)).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  "RATE_LIMIT_EXCEEDED",
			})
			return
		}

		c.Next()
	}
}

// ErrorHandlerMiddleware handles errors and returns standard format
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Error().Err(err).Str("path", c.FullPath()).Msg("Request error")

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error: err.Error(),
					Code:  "INTERNAL_ERROR",
				})
			}
		}
	}
}

// MetricsMiddleware counts and times requests by route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestCount.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
