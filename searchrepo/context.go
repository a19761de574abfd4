package searchrepo

import "context"

type cacheBypassKey struct{}

// WithoutCache returns a context that disables cache reads and writes for
// repository calls made with it, regardless of the options on the call.
// Useful when a caller needs a read-your-writes view right after a
// mutation it knows about.
func WithoutCache(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cacheBypassKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	bypassed, _ := ctx.Value(cacheBypassKey{}).(bool)
	return bypassed
}
