package domain

import "errors"

// Нарушения инвариантов. Это ошибки вызывающего кода, а не нормальный поток:
// бой, получивший такую ошибку, прерывается.
var (
	ErrNoSuchEntity      = errors.New("no such entity")
	ErrMissingComponent  = errors.New("missing component")
	ErrInvalidSpeed      = errors.New("invalid speed")
	ErrNotEnoughAP       = errors.New("not enough ap")
	ErrNoActors          = errors.New("no entities available for turn")
	ErrUnknownAllegiance = errors.New("unknown allegiance")
	ErrUnknownScope      = errors.New("unknown scope")
)
