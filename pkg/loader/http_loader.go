package loader

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/samvad-hq/rover-photos/pkg/httpclient"
)

// HTTPLoader implements NetworkLoader over an httpclient.Client. Each load
// runs on its own goroutine.
type HTTPLoader struct {
	client httpclient.Client
}

// DefaultTimeout is used when NewHTTPLoader is given no client.
const DefaultTimeout = 15 * time.Second

// NewHTTPLoader builds a loader around client (or a default resty client).
func NewHTTPLoader(client httpclient.Client) *HTTPLoader {
	if client == nil {
		client = httpclient.NewRestyClient(DefaultTimeout)
	}
	return &HTTPLoader{client: client}
}

// LoadRequest fetches req asynchronously.
func (l *HTTPLoader) LoadRequest(ctx context.Context, req Request, done Completion) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	go func() {
		done(l.fetch(ctx, req.URL, func(ctx context.Context) (httpclient.Response, error) {
			return l.client.Do(ctx, method, req.URL, req.Header)
		}))
	}()
}

// LoadURL issues a GET for locator asynchronously.
func (l *HTTPLoader) LoadURL(ctx context.Context, locator *url.URL, done Completion) {
	if locator == nil {
		go done(nil, newTransportError("", errNilLocator))
		return
	}
	u := locator.String()
	go func() {
		done(l.fetch(ctx, u, func(ctx context.Context) (httpclient.Response, error) {
			return l.client.Get(ctx, u, nil)
		}))
	}()
}

func (l *HTTPLoader) fetch(ctx context.Context, u string, send func(context.Context) (httpclient.Response, error)) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := send(ctx)
	if err != nil {
		return nil, newTransportError(redact(u), err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{
			URL:        redact(u),
			StatusCode: code,
			Summary:    summarizeBody(resp.ContentType(), resp.Body()),
		}
	}
	body := resp.Body()
	if body == nil {
		body = []byte{}
	}
	return body, nil
}

// redact hides the api_key query parameter in error messages.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
