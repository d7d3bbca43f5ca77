package gen

import "errors"

var (
	ErrNameCollision = errors.New("gen: name collision")
	ErrNotGenerated  = errors.New("gen: refusing to overwrite hand-written file")
)
