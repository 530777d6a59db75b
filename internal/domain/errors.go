package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when an upstream data source request fails
	ErrUpstreamFailure = errors.New("upstream request failed")

	// ErrNotFound is returned when an upstream source has no data for the query
	ErrNotFound = errors.New("no results for query")

	// ErrNoProviders is returned when every configured LLM provider failed
	ErrNoProviders = errors.New("all llm providers failed")

	// ErrEmptyCompletion is returned when a provider answered with no usable text
	ErrEmptyCompletion = errors.New("empty completion")
)
