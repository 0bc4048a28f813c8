package domain

import "errors"

var (
	// ErrDatasetNotFound is returned when the FoodKeeper dataset file does not exist
	ErrDatasetNotFound = errors.New("FoodKeeper dataset not found")

	// ErrDatasetMalformed is returned when the dataset cannot be parsed or fails schema validation
	ErrDatasetMalformed = errors.New("FoodKeeper dataset is malformed")

	// ErrDatasetFetch is returned when downloading the dataset fails
	ErrDatasetFetch = errors.New("FoodKeeper dataset download failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned by the HTTP surface when no strategy resolved the query
	ErrProductNotFound = errors.New("product not found in FoodKeeper database")

	// ErrReportWrite is returned when the results file cannot be written
	ErrReportWrite = errors.New("failed to write results file")
)
