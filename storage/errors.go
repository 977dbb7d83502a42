package storage

import "errors"

var (
	// ErrDialFuncRequired is returned when a pool is created without a dial function.
	ErrDialFuncRequired = errors.New("dial function required")

	// ErrPoolClosed is returned when leasing from a closed pool.
	ErrPoolClosed = errors.New("pool is closed")
)
