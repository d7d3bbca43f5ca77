package approuter

import (
	"context"
	"time"
)

// Observer is notified around every route dispatched through a Table.
// Calls made directly on a generated Route method are not observed.
type Observer interface {
	RouteStarted(ctx context.Context, table string, key RouteKey) context.Context
	RouteFinished(ctx context.Context, table string, key RouteKey, elapsed time.Duration, err error)
}

// Observers fans events out to every non-nil observer, in order.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	default:
		return list
	}
}

type multiObserver []Observer

func (m multiObserver) RouteStarted(ctx context.Context, table string, key RouteKey) context.Context {
	for _, o := range m {
		ctx = o.RouteStarted(ctx, table, key)
	}
	return ctx
}

func (m multiObserver) RouteFinished(ctx context.Context, table string, key RouteKey, elapsed time.Duration, err error) {
	for _, o := range m {
		o.RouteFinished(ctx, table, key, elapsed, err)
	}
}
