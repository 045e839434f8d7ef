package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"codeberg.org/olkkari/server/internal/auth"
	"codeberg.org/olkkari/server/internal/errors"
	"codeberg.org/olkkari/server/internal/logger"
)

const storePrefix = "olkkari:ratelimit"

// named limit in ulule format, e.g. "20-M"
type Policy struct {
	Name string
	Rate string
}

var (
	// concierge turns hit a paid LLM
	Concierge = Policy{Name: "concierge", Rate: "20-M"}

	// sign-in and magic links
	Auth = Policy{Name: "auth", Rate: "10-M"}

	// uploads and extractions
	Receipts = Policy{Name: "receipts", Rate: "30-H"}
)

// builds per-policy middlewares on one shared store
type Limiter struct {
	store limiter.Store
}

// in-process counters; limits are per instance
func NewMemory() *Limiter {
	return &Limiter{store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})}
}

// counters shared by all instances through redis
func NewRedis(client *redis.Client) (*Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: storePrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return &Limiter{store: store}, nil
}

// gin middleware enforcing p per user, or per client IP when anonymous.
// store failures let the request through.
func (l *Limiter) Middleware(p Policy) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(p.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q for %s: %w", p.Rate, p.Name, err)
	}

	return mgin.NewMiddleware(
		limiter.New(l.store, rate),
		mgin.WithKeyGetter(keyGetter(p.Name)),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Warn("rate limit exceeded", "policy", p.Name, "ip", c.ClientIP(), "path", c.FullPath())
			errors.TooManyRequests(c, "too many requests, please slow down")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.ErrorErr(err, "rate limit store failed", "policy", p.Name)
			c.Next()
		}),
	), nil
}

// panics on an invalid rate; for the fixed policies above
func (l *Limiter) MustMiddleware(p Policy) gin.HandlerFunc {
	mw, err := l.Middleware(p)
	if err != nil {
		panic(err)
	}

	return mw
}

func keyGetter(policy string) func(c *gin.Context) string {
	return func(c *gin.Context) string {
		if userID, ok := auth.GetUserID(c); ok {
			return policy + ":user:" + userID
		}

		return policy + ":ip:" + c.ClientIP()
	}
}
