package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSpec       = errors.New("config: invalid routing table")
	ErrUnknownReceiver   = fmt.Errorf("%w: unknown receiver", ErrInvalidSpec)
	ErrDuplicateRule     = fmt.Errorf("%w: duplicate rule", ErrInvalidSpec)
	ErrUnsupportedFormat = errors.New("config: unsupported table format")
)
