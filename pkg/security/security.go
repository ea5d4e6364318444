package security

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"codequest_backend/internal/config"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 仅对白名单 Origin 回写允许头，允许的请求头与方法来自配置
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	originSet := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		originSet[o] = true
	}
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	methods := strings.Join(cfg.AllowedMethods, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && originSet[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		if headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		if methods != "" {
			c.Header("Access-Control-Allow-Methods", methods)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure 常用安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// KeyFunc 决定请求计入哪个限流桶
type KeyFunc func(c *gin.Context) string

// ClientKey 按客户端 IP 分桶
func ClientKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// IdentityKey 按令牌身份分桶，未携带身份时退回客户端 IP
func IdentityKey(c *gin.Context) string {
	if id := util.GetIdentity(c); id != "" {
		return "user:" + id
	}
	return ClientKey(c)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter 令牌桶限流，每个 key 一个桶，长期不活跃的桶定期清理
type Limiter struct {
	mu     sync.Mutex
	store  map[string]*visitor
	every  rate.Limit
	burst  int
	expiry time.Duration
	now    func() time.Time
}

// NewLimiter 在 window 内每个 key 最多 MaxRequests 次请求；MaxRequests 不大于 0 时不限流
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	expiry := max(window*3, time.Minute)
	every, burst := rate.Inf, 1
	if cfg.MaxRequests > 0 {
		every, burst = rate.Every(window/time.Duration(cfg.MaxRequests)), cfg.MaxRequests
	}
	return &Limiter{
		store:  make(map[string]*visitor),
		every:  every,
		burst:  burst,
		expiry: expiry,
		now:    time.Now,
	}
}

// Allow 消耗 key 对应桶中的一个令牌；拒绝时返回建议的等待时间
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.store[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.store[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Sweep 删除超过过期时间未访问的桶
func (l *Limiter) Sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.store {
		if now.Sub(v.lastSeen) > l.expiry {
			delete(l.store, key)
		}
	}
}

// Len 当前桶数量
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.store)
}

// Middleware 超限时返回 429 并带上 Retry-After
func (l *Limiter) Middleware(key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Allow(key(c))
		if !ok {
			seconds := int(wait.Round(time.Second) / time.Second)
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			util.Error(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimiter 创建限流中间件并启动后台清理
func RateLimiter(cfg config.RateLimitConfig, key KeyFunc) gin.HandlerFunc {
	l := NewLimiter(cfg)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			l.Sweep()
		}
	}()
	return l.Middleware(key)
}
