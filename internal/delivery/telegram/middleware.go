package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(ctx, chatID)
			return nil
		}
		return nil
	}
}

// visitor pairs a chat's limiter with the time it was last used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// chatLimiter throttles updates per chat.
type chatLimiter struct {
	limit  rate.Limit
	burst  int
	expiry time.Duration

	mu       sync.Mutex
	visitors map[int64]*visitor
}

// newChatLimiter allows limit updates per second per chat with the given burst.
// A non-positive limit disables throttling.
func newChatLimiter(limit rate.Limit, burst int, expiry time.Duration) *chatLimiter {
	if burst < 1 {
		burst = 1
	}
	return &chatLimiter{
		limit:    limit,
		burst:    burst,
		expiry:   expiry,
		visitors: make(map[int64]*visitor),
	}
}

func (l *chatLimiter) allow(chatID int64, now time.Time) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[chatID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[chatID] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// prune forgets chats not seen within the expiry.
func (l *chatLimiter) prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.expiry {
			delete(l.visitors, id)
			removed++
		}
	}
	return removed
}

func (l *chatLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
