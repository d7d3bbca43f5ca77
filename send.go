package approuter

import (
	"context"
	"fmt"
)

// Send delivers msg on behalf of source S through whatever route r declares
// for (S, M, Resp). It is the runtime counterpart of the generated Send
// methods and is what handlers use when they only know the Router interface.
func Send[S, M, Resp any](ctx context.Context, r Router, msg *M) (Resp, error) {
	route, err := lookup[S, M, Resp](r)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return route(ctx, msg)
}

// Lookup returns the route r declares for (S, M, Resp).
func Lookup[S, M, Resp any](r Router) (RouteFunc[M, Resp], bool) {
	route, err := lookup[S, M, Resp](r)
	return route, err == nil
}

func lookup[S, M, Resp any](r Router) (RouteFunc[M, Resp], error) {
	key := KeyOf[S, M, Resp]()
	if r == nil {
		return nil, fmt.Errorf("%w: %s (nil router)", ErrNoRoute, key)
	}
	v, ok := r.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, key)
	}
	route, ok := v.(RouteFunc[M, Resp])
	if !ok {
		return nil, fmt.Errorf("%w: %s resolved to %T", ErrRouteType, key, v)
	}
	return route, nil
}
