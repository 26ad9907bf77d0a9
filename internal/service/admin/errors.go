package admin

import "errors"

var (
	ErrInvalidSequence  = errors.New("sequence value must not be negative")
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 100")
)
