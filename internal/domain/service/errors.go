package service

import "errors"

// Sentinel errors.
var (
	ErrUnknownModel       = errors.New("unknown model")
	ErrInferenceFailed    = errors.New("inference failed")
	ErrEmptyDataset       = errors.New("dataset is empty")
	ErrLabelCountMismatch = errors.New("dataset label count does not match row count")
	ErrInvalidLabel       = errors.New("dataset label must be 0 or 1")
)
