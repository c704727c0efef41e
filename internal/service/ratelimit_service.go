package service

import (
	"sync"
	"time"

	"ytinfo/internal/model"
	"ytinfo/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// visitor tracks the token bucket for one IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitService keeps a token bucket per client IP
type RateLimitService struct {
	cfg      *model.RateLimitConfig
	visitors map[string]*visitor
	mu       sync.Mutex
	quit     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(cfg *model.RateLimitConfig) *RateLimitService {
	rls := &RateLimitService{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		quit:     make(chan struct{}),
		now:      time.Now,
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go rls.cleanupRoutine(time.Duration(cfg.CleanupInterval) * time.Second)
	}

	return rls
}

// IsAllowed consumes one token for ip and reports whether the request may proceed
func (rls *RateLimitService) IsAllowed(ip string) bool {
	if !rls.cfg.Enabled {
		return true
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	if !rls.visitor(ip, now).limiter.AllowN(now, 1) {
		logger.Logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.Int("limit", rls.cfg.RequestsPerMinute))
		return false
	}
	return true
}

// GetRemaining returns the whole tokens left for ip, or -1 when unlimited
func (rls *RateLimitService) GetRemaining(ip string) int {
	if !rls.cfg.Enabled {
		return -1
	}

	rls.mu.Lock()
	defer rls.mu.Unlock()

	v, exists := rls.visitors[ip]
	if !exists {
		return rls.burst()
	}
	remaining := int(v.limiter.TokensAt(rls.now()))
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// visitor returns the entry for ip, creating it if needed. Callers hold mu.
func (rls *RateLimitService) visitor(ip string, now time.Time) *visitor {
	v, exists := rls.visitors[ip]
	if !exists {
		every := time.Minute / time.Duration(rls.cfg.RequestsPerMinute)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), rls.burst())}
		rls.visitors[ip] = v
		logger.Logger.Debug("New rate limit entry created", zap.String("ip", ip))
	}
	v.lastSeen = now
	return v
}

// burst is the bucket size: a minute's allowance plus the configured burst
func (rls *RateLimitService) burst() int {
	return rls.cfg.RequestsPerMinute + rls.cfg.BurstSize
}

// cleanupRoutine periodically cleans up idle entries
func (rls *RateLimitService) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rls.quit:
			logger.Logger.Info("Rate limit service stopped")
			return
		case <-ticker.C:
			rls.cleanup(interval)
		}
	}
}

// cleanup removes entries idle for longer than maxIdle
func (rls *RateLimitService) cleanup(maxIdle time.Duration) {
	rls.mu.Lock()
	defer rls.mu.Unlock()

	now := rls.now()
	removed := 0
	for ip, v := range rls.visitors {
		if now.Sub(v.lastSeen) > maxIdle {
			delete(rls.visitors, ip)
			removed++
		}
	}

	if removed > 0 {
		logger.Logger.Debug("Rate limit entries cleaned up", zap.Int("removed", removed), zap.Int("remaining", len(rls.visitors)))
	}
}

// Reset forgets the bucket for ip
func (rls *RateLimitService) Reset(ip string) {
	rls.mu.Lock()
	defer rls.mu.Unlock()

	delete(rls.visitors, ip)
	logger.Logger.Info("Rate limit reset for IP", zap.String("ip", ip))
}

// Stop stops the rate limit service
func (rls *RateLimitService) Stop() {
	rls.stopOnce.Do(func() { close(rls.quit) })
}
