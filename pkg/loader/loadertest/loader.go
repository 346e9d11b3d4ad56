// Package loadertest provides a scripted loader.NetworkLoader for tests.
package loadertest

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/samvad-hq/rover-photos/pkg/loader"
)

// Dispatch selects where a completion runs.
type Dispatch int

const (
	// Background runs the completion on a new goroutine after Delay.
	Background Dispatch = iota
	// Immediate runs the completion on the caller's goroutine before the
	// load method returns.
	Immediate
)

// Loader returns preset data or an error and records what it was asked for.
type Loader struct {
	Data     []byte
	Err      error
	Delay    time.Duration
	Dispatch Dispatch

	mu      sync.Mutex
	request *loader.Request
	locator *url.URL
	calls   int
}

// New builds a loader answering every call with data and err.
func New(data []byte, err error) *Loader {
	return &Loader{Data: data, Err: err}
}

// LoadRequest records req and completes with the preset outcome.
func (l *Loader) LoadRequest(_ context.Context, req loader.Request, done loader.Completion) {
	l.mu.Lock()
	cp := req
	l.request = &cp
	l.calls++
	l.mu.Unlock()
	l.complete(done)
}

// LoadURL records locator and completes with the preset outcome.
func (l *Loader) LoadURL(_ context.Context, locator *url.URL, done loader.Completion) {
	l.mu.Lock()
	l.locator = nil
	if locator != nil {
		cp := *locator
		l.locator = &cp
	}
	l.calls++
	l.mu.Unlock()
	l.complete(done)
}

// Request returns the last request descriptor passed to LoadRequest.
func (l *Loader) Request() *loader.Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.request
}

// URL returns the last locator passed to LoadURL; nil if it was nil.
func (l *Loader) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locator
}

// Calls returns how many loads were started.
func (l *Loader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *Loader) complete(done loader.Completion) {
	data, err := l.Data, l.Err
	switch {
	case err != nil:
		data = nil
	case data == nil:
		data = []byte{}
	}
	if l.Dispatch == Immediate {
		done(data, err)
		return
	}
	go func() {
		if l.Delay > 0 {
			time.Sleep(l.Delay)
		}
		done(data, err)
	}()
}
