package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func TestRecentCallerCacheWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cache := newRecentCallerCache(ScreenedCallerTTL, clock.now)

	cache.MarkScreened(strangerPhone)
	clock.advance(29 * time.Minute)
	assert.True(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestRecentCallerCacheExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cache := newRecentCallerCache(ScreenedCallerTTL, clock.now)

	cache.MarkScreened(strangerPhone)
	clock.advance(31 * time.Minute)
	assert.False(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestRecentCallerCacheRemarkRefreshesWindow(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cache := newRecentCallerCache(ScreenedCallerTTL, clock.now)

	cache.MarkScreened(strangerPhone)
	clock.advance(29 * time.Minute)
	cache.MarkScreened(strangerPhone)
	clock.advance(29 * time.Minute)
	assert.True(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestRecentCallerCacheUnknownCaller(t *testing.T) {
	cache := newRecentCallerCache(ScreenedCallerTTL, time.Now)
	assert.False(t, cache.WasRecentlyScreened(ownerNumber))
}
