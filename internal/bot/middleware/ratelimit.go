package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает количество сообщений на пользователя:
// не больше limit за window, токен-бакет из golang.org/x/time/rate.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[int64]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	rl := &RateLimiter{
		visitors: make(map[int64]*visitor),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close останавливает фоновую горутину очистки. Вызывать на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow сообщает, можно ли обработать ещё одно сообщение пользователя.
func (rl *RateLimiter) Allow(userID int64) bool {
	return rl.allowAt(userID, time.Now())
}

func (rl *RateLimiter) allowAt(userID int64, now time.Time) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.visitors[userID] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

// evictIdle забывает пользователей, молчавших дольше окна: их бакет уже полон.
func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for userID, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, userID)
		}
	}
}
