package services

import (
	"sync"
	"time"
)

// ScreenedCallerTTL is how long a screened caller rings straight through to
// voicemail recording on a follow-up call.
const ScreenedCallerTTL = 30 * time.Minute

// RecentCallerCache remembers which callers were screened recently. It is
// process local on purpose: losing it on restart only means a caller gets
// screened once more, which is harmless.
type RecentCallerCache struct {
	entries sync.Map // number -> expiry time.Time
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
}

func NewRecentCallerCache() *RecentCallerCache {
	c := newRecentCallerCache(ScreenedCallerTTL, time.Now)
	go c.sweep(time.Minute)
	return c
}

func newRecentCallerCache(ttl time.Duration, now func() time.Time) *RecentCallerCache {
	return &RecentCallerCache{
		ttl:  ttl,
		now:  now,
		stop: make(chan struct{}),
	}
}

// MarkScreened records that the caller just heard the screening message.
// Marking again refreshes the window.
func (c *RecentCallerCache) MarkScreened(number string) {
	c.entries.Store(number, c.now().Add(c.ttl))
}

// WasRecentlyScreened reports whether the caller was screened within the TTL.
func (c *RecentCallerCache) WasRecentlyScreened(number string) bool {
	v, ok := c.entries.Load(number)
	if !ok {
		return false
	}
	expiry := v.(time.Time)
	if c.now().After(expiry) {
		c.entries.Delete(number)
		return false
	}
	return true
}

// Close stops the background sweeper.
func (c *RecentCallerCache) Close() {
	close(c.stop)
}

func (c *RecentCallerCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := c.now()
			c.entries.Range(func(key, value interface{}) bool {
				if now.After(value.(time.Time)) {
					c.entries.Delete(key)
				}
				return true
			})
		case <-c.stop:
			return
		}
	}
}
