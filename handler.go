package approuter

import "context"

// Unit is the response of a route that declares none.
type Unit = struct{}

// Handler is implemented by every receiver named in a route rule. The router
// argument lets a handler act as a source itself.
type Handler[M, R, Resp any] interface {
	Handle(ctx context.Context, msg *M, router R) (Resp, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[M, R, Resp any] func(ctx context.Context, msg *M, router R) (Resp, error)

func (f HandlerFunc[M, R, Resp]) Handle(ctx context.Context, msg *M, router R) (Resp, error) {
	return f(ctx, msg, router)
}

// RouteFunc is a route bound to one router value.
type RouteFunc[M, Resp any] func(ctx context.Context, msg *M) (Resp, error)
