package loader

import (
	"context"
	"net/url"
)

// Completion receives the outcome of a single load. It is invoked exactly
// once, with data and a nil error on success or nil data and an error.
type Completion func(data []byte, err error)

// Request is a fully formed request descriptor.
type Request struct {
	Method string
	URL    string
	Header map[string]string
}

// NetworkLoader performs one asynchronous fetch per call. Implementations
// choose the goroutine that runs done; callers must not assume affinity.
type NetworkLoader interface {
	LoadRequest(ctx context.Context, req Request, done Completion)
	LoadURL(ctx context.Context, locator *url.URL, done Completion)
}
