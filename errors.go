package approuter

import "errors"

var (
	ErrNoRoute        = errors.New("approuter: no route")
	ErrDuplicateRoute = errors.New("approuter: duplicate route")
	ErrRouteType      = errors.New("approuter: route type mismatch")
)
