// Package ratelimit implements a fixed-window attempt counter.
//
// The first attempt for a key opens a window and counts as 1. Every attempt
// that arrives while no more than the window duration has elapsed since the
// window opened increments the count. The first attempt after that resets the
// count to 1 and opens a new window. An attempt is denied when the count
// exceeds the limit; RetryAfter tells the caller when the window closes.
//
// Two stores are provided. MemoryStore keeps counters in the process and is
// the default. RedisStore shares counters between instances.
//
//	store := ratelimit.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimit.New(store)
//	res, err := limiter.Allow(ctx, ratelimit.Key(ip, "request-magic-link"), 5*time.Minute, 3)
//	if !res.Allowed {
//	    // reject, retry after res.RetryAfter
//	}
package ratelimit
