package domain

import "errors"

// ErrDatasetNotFound is returned when the backing dataset cannot be located.
var ErrDatasetNotFound = errors.New("dataset not found")

// ErrSchemaInvalid is returned when the dataset is missing required columns.
var ErrSchemaInvalid = errors.New("dataset schema invalid")

// ErrMalformedData is returned when the dataset exists but cannot be parsed.
var ErrMalformedData = errors.New("dataset malformed")

// ErrRowNotFound is returned when a row ID cannot be found at write time,
// e.g. the file was externally truncated between calls.
var ErrRowNotFound = errors.New("row not found")

// ErrWriteFailed is returned when a rewrite of the collection fails.
// The previous contents remain intact; the mutation is not applied.
var ErrWriteFailed = errors.New("dataset write failed")

// ErrInvalidLabel is returned when a label token is not one of the known values.
var ErrInvalidLabel = errors.New("invalid label")
