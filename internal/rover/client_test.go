package rover

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/rover-photos/internal/domain"
	"github.com/samvad-hq/rover-photos/pkg/loader"
	"github.com/samvad-hq/rover-photos/pkg/loader/loadertest"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

type roverOutcome struct {
	info domain.RoverInfo
	err  error
}

type photosOutcome struct {
	photos []domain.PhotoReference
	err    error
}

// awaitOnce waits for the single completion and fails if a second one arrives.
func awaitOnce[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	var out T
	select {
	case out = <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("callback was not invoked")
	}
	select {
	case <-ch:
		t.Fatalf("callback invoked more than once")
	case <-time.After(50 * time.Millisecond):
	}
	return out
}

func fetchRover(t *testing.T, c *Client, name string) roverOutcome {
	t.Helper()
	ch := make(chan roverOutcome, 2)
	c.FetchRoverInfo(context.Background(), name, func(info domain.RoverInfo, err error) {
		ch <- roverOutcome{info: info, err: err}
	})
	return awaitOnce(t, ch)
}

func fetchPhotos(t *testing.T, c *Client, rover domain.RoverInfo, sol int) photosOutcome {
	t.Helper()
	ch := make(chan photosOutcome, 2)
	c.FetchPhotoReferences(context.Background(), rover, sol, func(photos []domain.PhotoReference, err error) {
		ch <- photosOutcome{photos: photos, err: err}
	})
	return awaitOnce(t, ch)
}

func testRover() domain.RoverInfo {
	now := domain.NewDate(time.Now())
	return domain.RoverInfo{
		Name:           "Curiosity",
		LaunchDate:     now,
		LandingDate:    now,
		Status:         domain.RoverStatusActive,
		MaxSol:         1000,
		MaxDate:        now,
		NumberOfPhotos: 9999999,
	}
}

func TestFetchRoverInfoDecodesFixture(t *testing.T) {
	mock := loadertest.New(readFixture(t, "rover_curiosity.json"), nil)
	mock.Delay = 10 * time.Millisecond
	client := NewClient(mock)

	out := fetchRover(t, client, "curiosity")
	if out.err != nil {
		t.Fatalf("FetchRoverInfo: %v", out.err)
	}
	if mock.URL() == nil {
		t.Fatalf("loader did not receive a locator")
	}
	if out.info.NumberOfPhotos != 4156 {
		t.Fatalf("NumberOfPhotos = %d", out.info.NumberOfPhotos)
	}
	if len(out.info.SolDescriptions) != 5 {
		t.Fatalf("SolDescriptions = %d", len(out.info.SolDescriptions))
	}
	if out.info.Name != "Curiosity" {
		t.Fatalf("Name = %q", out.info.Name)
	}
	if out.info.Status != domain.RoverStatusActive || out.info.LandingDate.String() != "2012-08-06" {
		t.Fatalf("unexpected status/landing date %+v", out.info)
	}
}

func TestFetchRoverInfoLocatorEncodesName(t *testing.T) {
	mock := loadertest.New(readFixture(t, "rover_curiosity.json"), nil)
	mock.Dispatch = loadertest.Immediate
	client := NewClient(mock)

	fetchRover(t, client, " Curiosity ")
	u := mock.URL()
	if u == nil || !strings.HasSuffix(u.Path, "/rovers/curiosity") {
		t.Fatalf("unexpected locator %v", u)
	}
}

func TestFetchPhotoReferencesDecodesFixture(t *testing.T) {
	mock := loadertest.New(readFixture(t, "photos_curiosity_sol1.json"), nil)
	mock.Delay = 10 * time.Millisecond
	client := NewClient(mock)

	out := fetchPhotos(t, client, testRover(), 1)
	if out.err != nil {
		t.Fatalf("FetchPhotoReferences: %v", out.err)
	}
	if mock.URL() == nil {
		t.Fatalf("loader did not receive a locator")
	}
	if len(out.photos) != 16 {
		t.Fatalf("expected 16 photos, got %d", len(out.photos))
	}
	if out.photos[0].ID != 4477 {
		t.Fatalf("first photo id = %d", out.photos[0].ID)
	}
	if out.photos[0].Camera.Name != "MAHLI" || out.photos[0].ImageURL == "" {
		t.Fatalf("unexpected first photo %+v", out.photos[0])
	}
}

func TestFetchPhotoReferencesLocatorEncodesNameAndSol(t *testing.T) {
	mock := loadertest.New(readFixture(t, "photos_curiosity_sol1.json"), nil)
	client := NewClient(mock, WithAPIKey("k1"))

	fetchPhotos(t, client, testRover(), 42)
	u := mock.URL()
	if u == nil {
		t.Fatalf("no locator recorded")
	}
	if !strings.HasSuffix(u.Path, "/rovers/curiosity/photos") {
		t.Fatalf("unexpected path %q", u.Path)
	}
	if got := u.Query().Get("sol"); got != "42" {
		t.Fatalf("sol query = %q", got)
	}
	if got := u.Query().Get("api_key"); got != "k1" {
		t.Fatalf("api_key query = %q", got)
	}
}

func TestFetchOperationsForwardLoaderError(t *testing.T) {
	loaderErr := errors.New("offline")
	mock := loadertest.New([]byte(`{"photos":[]}`), loaderErr)
	client := NewClient(mock)

	rover := fetchRover(t, client, "curiosity")
	if rover.err != loaderErr {
		t.Fatalf("expected loader error forwarded unchanged, got %v", rover.err)
	}
	if rover.info.Name != "" {
		t.Fatalf("expected no value alongside error, got %+v", rover.info)
	}

	photos := fetchPhotos(t, client, testRover(), 1)
	if photos.err != loaderErr {
		t.Fatalf("expected loader error forwarded unchanged, got %v", photos.err)
	}
	if photos.photos != nil {
		t.Fatalf("expected nil photos alongside error")
	}
}

func TestFetchOperationsReportDecodeError(t *testing.T) {
	mock := loadertest.New([]byte(`{not json`), nil)
	client := NewClient(mock)

	rover := fetchRover(t, client, "curiosity")
	var decodeErr *DecodeError
	if !errors.As(rover.err, &decodeErr) || !errors.Is(rover.err, ErrDecode) {
		t.Fatalf("expected DecodeError, got %v", rover.err)
	}
	if errors.Is(rover.err, ErrNetwork) {
		t.Fatalf("decode error must not match ErrNetwork")
	}

	photos := fetchPhotos(t, client, testRover(), 1)
	if !errors.Is(photos.err, ErrDecode) {
		t.Fatalf("expected DecodeError, got %v", photos.err)
	}
	if photos.photos != nil {
		t.Fatalf("expected nil photos alongside decode error")
	}
}

// chattyLoader completes twice to prove the client shields callers.
type chattyLoader struct{}

func (chattyLoader) LoadRequest(_ context.Context, _ loader.Request, done loader.Completion) {
	done(nil, errors.New("first"))
	done(nil, errors.New("second"))
}

func (chattyLoader) LoadURL(_ context.Context, _ *url.URL, done loader.Completion) {
	done([]byte(`{"photos":[]}`), nil)
	done(nil, errors.New("second"))
}

func TestFetchCallsBackExactlyOnceWithMisbehavingLoader(t *testing.T) {
	client := NewClient(chattyLoader{})
	var calls atomic.Int32
	client.FetchPhotoReferences(context.Background(), testRover(), 1, func(photos []domain.PhotoReference, err error) {
		calls.Add(1)
		if err != nil || photos == nil {
			t.Errorf("unexpected first completion photos=%v err=%v", photos, err)
		}
	})
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 callback, got %d", got)
	}
}

func TestBlockingWrappers(t *testing.T) {
	manifest := loadertest.New(readFixture(t, "rover_curiosity.json"), nil)
	info, err := NewClient(manifest).RoverInfo(context.Background(), "curiosity")
	if err != nil || info.Name != "Curiosity" {
		t.Fatalf("RoverInfo: info=%+v err=%v", info, err)
	}

	photosMock := loadertest.New(readFixture(t, "photos_curiosity_sol1.json"), nil)
	photos, err := NewClient(photosMock).PhotoReferences(context.Background(), info, 1)
	if err != nil || len(photos) != 16 {
		t.Fatalf("PhotoReferences: len=%d err=%v", len(photos), err)
	}
}

func TestBlockingWrapperStopsWaitingOnCancel(t *testing.T) {
	mock := loadertest.New(readFixture(t, "rover_curiosity.json"), nil)
	mock.Delay = time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(mock).RoverInfo(ctx, "curiosity")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConcurrentFetchesAreIndependent(t *testing.T) {
	mock := loadertest.New(readFixture(t, "photos_curiosity_sol1.json"), nil)
	client := NewClient(mock)

	const n = 8
	ch := make(chan photosOutcome, n)
	for sol := 0; sol < n; sol++ {
		client.FetchPhotoReferences(context.Background(), testRover(), sol, func(p []domain.PhotoReference, err error) {
			ch <- photosOutcome{photos: p, err: err}
		})
	}
	for i := 0; i < n; i++ {
		out := <-ch
		if out.err != nil || len(out.photos) != 16 {
			t.Fatalf("fetch %d: len=%d err=%v", i, len(out.photos), out.err)
		}
	}
	if mock.Calls() != n {
		t.Fatalf("expected %d loads, got %d", n, mock.Calls())
	}
}

func TestParseBaseURL(t *testing.T) {
	u, err := ParseBaseURL("http://localhost:8080/api/")
	if err != nil {
		t.Fatalf("ParseBaseURL: %v", err)
	}
	c := NewClient(loadertest.New(nil, nil), WithBaseURL(u))
	got, err := c.RoverInfoURL("Spirit")
	if err != nil {
		t.Fatalf("RoverInfoURL: %v", err)
	}
	if got.String() != "http://localhost:8080/api/rovers/spirit" {
		t.Fatalf("RoverInfoURL = %s", got)
	}

	if _, err := ParseBaseURL("ftp://example.com"); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := ParseBaseURL("https://"); err == nil {
		t.Fatalf("expected host error")
	}
}

func TestLocatorKeepsNameInOneSegment(t *testing.T) {
	c := NewClient(loadertest.New(nil, nil))

	info, err := c.RoverInfoURL("curiosity/photos")
	if err != nil {
		t.Fatalf("RoverInfoURL: %v", err)
	}
	if got := info.String(); got != DefaultBaseURL+"/rovers/curiosity%2Fphotos" {
		t.Fatalf("RoverInfoURL = %s", got)
	}

	photos, err := c.PhotosURL("../../x", 1)
	if err != nil {
		t.Fatalf("PhotosURL: %v", err)
	}
	if got := photos.String(); got != DefaultBaseURL+"/rovers/..%2F..%2Fx/photos?sol=1" {
		t.Fatalf("PhotosURL = %s", got)
	}

	spaced, err := c.RoverInfoURL("Mars Rover")
	if err != nil {
		t.Fatalf("RoverInfoURL: %v", err)
	}
	if got := spaced.String(); got != DefaultBaseURL+"/rovers/mars%20rover" {
		t.Fatalf("RoverInfoURL = %s", got)
	}
}

func TestLocatorRejectsUnusableNames(t *testing.T) {
	c := NewClient(loadertest.New(nil, nil))
	for _, name := range []string{"", "   ", ".", ".."} {
		if _, err := c.RoverInfoURL(name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("RoverInfoURL(%q) err = %v, want ErrInvalidName", name, err)
		}
		if _, err := c.PhotosURL(name, 1); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("PhotosURL(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestFetchWithInvalidNameSkipsLoader(t *testing.T) {
	mock := loadertest.New([]byte(`{}`), nil)
	client := NewClient(mock)

	infoCh := make(chan roverOutcome, 2)
	client.FetchRoverInfo(context.Background(), "..", func(info domain.RoverInfo, err error) {
		infoCh <- roverOutcome{info: info, err: err}
	})
	out := awaitOnce(t, infoCh)
	var nameErr *NameError
	if !errors.As(out.err, &nameErr) || nameErr.Name != ".." {
		t.Fatalf("expected *NameError for %q, got %v", "..", out.err)
	}
	if errors.Is(out.err, ErrNetwork) || errors.Is(out.err, ErrDecode) {
		t.Fatalf("name error must not match network or decode: %v", out.err)
	}

	photoCh := make(chan photosOutcome, 2)
	client.FetchPhotoReferences(context.Background(), domain.RoverInfo{}, 3, func(p []domain.PhotoReference, err error) {
		photoCh <- photosOutcome{photos: p, err: err}
	})
	pout := awaitOnce(t, photoCh)
	if !errors.Is(pout.err, ErrInvalidName) || pout.photos != nil {
		t.Fatalf("expected ErrInvalidName and no photos, got %v %v", pout.photos, pout.err)
	}

	if mock.Calls() != 0 || mock.URL() != nil {
		t.Fatalf("loader must not be called for invalid names (calls=%d)", mock.Calls())
	}
}
