package rover

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/samvad-hq/rover-photos/internal/domain"
	"github.com/samvad-hq/rover-photos/pkg/loader"
)

// DefaultBaseURL is the public rover photo API root.
const DefaultBaseURL = "https://api.nasa.gov/mars-photos/api/v1"

// Client fetches rover metadata and photo references through a NetworkLoader.
// It holds no per-fetch state, so concurrent fetches are independent.
type Client struct {
	loader  loader.NetworkLoader
	baseURL *url.URL
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u *url.URL) Option {
	return func(c *Client) {
		if u != nil {
			cp := *u
			c.baseURL = &cp
		}
	}
}

// WithAPIKey appends api_key to every locator.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// NewClient builds a client over l.
func NewClient(l loader.NetworkLoader, opts ...Option) *Client {
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{loader: l, baseURL: base}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseBaseURL validates a configured API root.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	return u, nil
}

// RoverInfoURL is the metadata locator for the named rover.
func (c *Client) RoverInfoURL(name string) (*url.URL, error) {
	seg, err := roverSegment(name)
	if err != nil {
		return nil, err
	}
	return c.locator(nil, "rovers", seg), nil
}

// PhotosURL is the photo-list locator for a rover on one sol.
func (c *Client) PhotosURL(name string, sol int) (*url.URL, error) {
	seg, err := roverSegment(name)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("sol", strconv.Itoa(sol))
	return c.locator(q, "rovers", seg, "photos"), nil
}

// FetchRoverInfo loads and decodes the named rover's metadata. done is
// called exactly once; loader errors are passed through unchanged and
// malformed bodies produce a *DecodeError. A name that cannot form a
// locator fails with a *NameError and nothing is loaded.
func (c *Client) FetchRoverInfo(ctx context.Context, name string, done func(domain.RoverInfo, error)) {
	once := onceCallback(done)
	locator, err := c.RoverInfoURL(name)
	if err != nil {
		go once(domain.RoverInfo{}, err)
		return
	}
	c.loader.LoadURL(ctx, locator, func(data []byte, err error) {
		if err != nil {
			once(domain.RoverInfo{}, err)
			return
		}
		once(DecodeRoverInfo(data))
	})
}

// FetchPhotoReferences loads the photos taken by rover on sol. The sol is
// not range-checked; the upstream decides what an out-of-range sol means.
func (c *Client) FetchPhotoReferences(ctx context.Context, rover domain.RoverInfo, sol int, done func([]domain.PhotoReference, error)) {
	once := onceCallback(done)
	locator, err := c.PhotosURL(rover.Name, sol)
	if err != nil {
		go once(nil, err)
		return
	}
	c.loader.LoadURL(ctx, locator, func(data []byte, err error) {
		if err != nil {
			once(nil, err)
			return
		}
		once(DecodePhotoReferences(data))
	})
}

// RoverInfo is the blocking form of FetchRoverInfo. If ctx ends first the
// wait is abandoned but the fetch itself still runs to completion.
func (c *Client) RoverInfo(ctx context.Context, name string) (domain.RoverInfo, error) {
	ch := make(chan domain.FetchResult[domain.RoverInfo], 1)
	c.FetchRoverInfo(ctx, name, func(info domain.RoverInfo, err error) {
		ch <- domain.FetchResult[domain.RoverInfo]{Value: info, Err: err}
	})
	return wait(ctx, ch)
}

// PhotoReferences is the blocking form of FetchPhotoReferences.
func (c *Client) PhotoReferences(ctx context.Context, rover domain.RoverInfo, sol int) ([]domain.PhotoReference, error) {
	ch := make(chan domain.FetchResult[[]domain.PhotoReference], 1)
	c.FetchPhotoReferences(ctx, rover, sol, func(photos []domain.PhotoReference, err error) {
		ch <- domain.FetchResult[[]domain.PhotoReference]{Value: photos, Err: err}
	})
	return wait(ctx, ch)
}

func wait[T any](ctx context.Context, ch <-chan domain.FetchResult[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case res := <-ch:
		return res.Unwrap()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (c *Client) locator(q url.Values, segments ...string) *url.URL {
	u := c.baseURL.JoinPath(segments...)
	if c.apiKey != "" {
		if q == nil {
			q = url.Values{}
		}
		q.Set("api_key", c.apiKey)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u
}

// roverSegment turns a rover name into one escaped path segment. Names
// that would vanish or climb out of /rovers when joined are rejected.
func roverSegment(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", ".", "..":
		return "", &NameError{Name: name}
	}
	return url.PathEscape(n), nil
}

// onceCallback drops any completion after the first, so a misbehaving
// loader cannot call the caller twice.
func onceCallback[T any](done func(T, error)) func(T, error) {
	var once sync.Once
	return func(v T, err error) {
		once.Do(func() {
			if err != nil {
				var zero T
				v = zero
			}
			done(v, err)
		})
	}
}
