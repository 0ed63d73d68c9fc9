package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, quietLogger())
	srv := New(runner, quietLogger(), Options{
		Defaults: pipeline.Options{
			Tracks:      3,
			Orientation: "vertical",
			Width:       300,
			Height:      250,
		},
		RequestTimeout: 5 * time.Second,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeBody[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)
	const id = "8f14e45f-ceea-467a-9b36-0c3f5e1b2a71"

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("malformed request ID was kept: %q", got)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/layout", `{"count": 31}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeBody[struct {
		Cached bool           `json:"cached"`
		Height int            `json:"height"`
		View   pipeline.View  `json:"view"`
		Stats  map[string]int
		Layout struct {
			Rects []json.RawMessage `json:"rects"`
		} `json:"layout"`
	}](t, resp)

	if body.Cached {
		t.Error("first request reported a cache hit")
	}
	if body.Height != 1300 || len(body.Layout.Rects) != 31 {
		t.Errorf("height=%d rects=%d", body.Height, len(body.Layout.Rects))
	}
	if diff := cmp.Diff([]int{0, 1, 3}, body.View.Visible); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
	if body.Stats["unplaceable"] != 1 {
		t.Errorf("stats = %v", body.Stats)
	}

	again := post(t, ts, "/v1/layout", `{"count": 31}`)
	if !decodeBody[struct{ Cached bool }](t, again).Cached {
		t.Error("second request missed the cache")
	}
}

func TestVisible(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/visible", `{"count": 31, "scroll_to": 30}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	view := decodeBody[pipeline.View](t, resp)
	if view.Offset != 1050 || view.MaxOffset != 1050 {
		t.Errorf("offset=%d max=%d", view.Offset, view.MaxOffset)
	}
	if diff := cmp.Diff([]int{22, 23, 24, 25, 26, 27, 28, 29, 30}, view.Visible); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestDefaults(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, quietLogger())
	srv := New(runner, quietLogger(), Options{
		Defaults: pipeline.Options{
			Tracks:      3,
			Orientation: "vertical",
			Inset:       8,
			Width:       300,
			Height:      250,
			Count:       31,
		},
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})

	tests := []struct {
		name       string
		body       string
		wantItems  int
		wantInsets bool
	}{
		{"all defaults", `{}`, 31, true},
		{"explicit empty", `{"count": 0}`, 0, false},
		{"explicit zero inset", `{"inset": 0}`, 31, false},
		{"explicit inset", `{"count": 5, "inset": 4}`, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/layout", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			body := decodeBody[layoutResponse](t, resp)
			if got := body.Stats["items"]; got != tt.wantItems {
				t.Errorf("items = %d, want %d", got, tt.wantItems)
			}
			if got := len(body.View.Insets) > 0; got != tt.wantInsets {
				t.Errorf("insets present = %v, want %v (%v)", got, tt.wantInsets, body.View.Insets)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", "/v1/layout", `{"count":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/v1/layout", `{"count": 1, "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad tracks", "/v1/layout", `{"count": 1, "tracks": -1}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"bad orientation", "/v1/visible", `{"count": 1, "orientation": "diagonal"}`, http.StatusBadRequest, "INVALID_ORIENTATION"},
		{"out of range", "/v1/visible", `{"count": 31, "scroll_to": 99}`, http.StatusBadRequest, "OUT_OF_RANGE"},
		{"unplaceable", "/v1/visible", `{"count": 31, "scroll_to": 2}`, http.StatusBadRequest, "UNPLACEABLE"},
		{"bad format", "/v1/render", `{"count": 1, "formats": ["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeBody[errorResponse](t, resp)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
			if body.RequestID == "" {
				t.Error("error response has no request ID")
			}
		})
	}
}

func TestWrongContentType(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/layout", "text/plain", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestRenderSingleFormat(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/render", `{"count": 10, "formats": ["svg"], "viewport": true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("body starts with %q", string(data[:min(20, len(data))]))
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/render", `{"count": 10, "formats": ["svg", "json"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeBody[renderResponse](t, resp)
	if len(body.Artifacts["svg"]) == 0 || len(body.Artifacts["json"]) == 0 {
		t.Errorf("artifacts = %v", len(body.Artifacts))
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(pipeline.NewRunner(nil, nil, quietLogger()), quietLogger(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, RunOptions{ShutdownTimeout: time.Second}) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for range 50 {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
