package entitycache

import "context"

type bypassContextKey struct{}

// WithBypass returns a context whose reads skip the cache and go straight
// to the source. The fetched result is still written back, so a bypassed
// read doubles as a forced refresh. Bypassed reads are not counted as hits
// or misses; a deliberate refresh says nothing about how well the cache is
// working.
func WithBypass(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, bypassContextKey{}, true)
}

func bypassFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	bypass, _ := ctx.Value(bypassContextKey{}).(bool)
	return bypass
}
