// Package ctxstore keeps request scoped values, such as the trace id and
// the authenticated identity, in a context under typed keys.
package ctxstore

import "context"

type Key string

func (k Key) String() string {
	return string(k)
}

func With[T any](ctx context.Context, key Key, value T) context.Context {
	return context.WithValue(ctx, key, value)
}

// From reports false when the key is missing or holds another type.
func From[T any](ctx context.Context, key Key) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// MustFrom is From for values a middleware is known to have set.
func MustFrom[T any](ctx context.Context, key Key) T {
	value, ok := From[T](ctx, key)
	if !ok {
		panic("ctxstore: " + key.String() + " not found")
	}
	return value
}
