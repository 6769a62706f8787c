// Package engine defines the contract with the full-text search engine: ordered
// query parameters, the typed response and the transport errors.
package engine

import (
	"context"
	"time"
)

// Method is the HTTP verb a query is sent with.
type Method string

// Query methods. Lookups are small and cacheable; searches carry long filter
// lists and go in the request body.
const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Store is the engine facade used by the composition root.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes one query round trip and returns the parsed response.
type Searcher interface {
	Select(ctx context.Context, method Method, params *Params) (*Response, error)
}
