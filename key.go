package approuter

import (
	"fmt"
	"reflect"
)

// RouteKey identifies a route by its source, message and response types.
type RouteKey struct {
	Source   reflect.Type
	Message  reflect.Type
	Response reflect.Type
}

// KeyOf returns the key for routes of message M sent by S and answered with Resp.
func KeyOf[S, M, Resp any]() RouteKey {
	return RouteKey{
		Source:   reflect.TypeFor[S](),
		Message:  reflect.TypeFor[M](),
		Response: reflect.TypeFor[Resp](),
	}
}

func (k RouteKey) String() string {
	return fmt.Sprintf("%s -> %s (%s)", typeName(k.Source), typeName(k.Message), typeName(k.Response))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
