package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// chatLimiter keeps one token bucket per chat.
type chatLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// newChatLimiter allows perMinute events per chat with an equal burst.
// A non-positive perMinute disables limiting.
func newChatLimiter(perMinute int) *chatLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &chatLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *chatLimiter) allow(chatID string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	limiter, ok := l.limiters[chatID]
	if !ok {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[chatID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
