package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/user/movieapi/internal/utils"
	"golang.org/x/time/rate"
)

// RateLimiter 按客户端 IP 的令牌桶限流
// 限流器存放在 go-cache 中，3 分钟未访问的客户端会被自动清理
type RateLimiter struct {
	clients *cache.Cache
	rps     rate.Limit
	burst   int
}

// NewRateLimiter 创建限流器
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: cache.New(3*time.Minute, 5*time.Minute),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.clients.Get(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	// Add 失败说明并发请求已写入，使用已有的那个
	if err := l.clients.Add(key, lim, cache.DefaultExpiration); err != nil {
		if v, ok := l.clients.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Middleware 返回 gin 中间件，超过限制返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		lim := l.limiter(key)
		// 续期，活跃客户端不被清理
		l.clients.Set(key, lim, cache.DefaultExpiration)

		if !lim.Allow() {
			utils.AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// RateLimit rps <= 0 时不限流
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return NewRateLimiter(rps, burst).Middleware()
}
