package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForwarder_PreservesMethodPathQueryBody(t *testing.T) {
	var got struct {
		method string
		path   string
		query  string
		body   string
		host   string
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.body = string(body)
		got.host = r.Host
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("upstream says hi"))
	}))
	defer upstream.Close()

	f, err := NewForwarder("/cv", upstream.URL, discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/cv/confirm?code=abc", strings.NewReader("payload"))
	rec := httptest.NewRecorder()

	f.ServeHTTP(rec, req)

	if got.method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.method)
	}
	if got.path != "/cv/confirm" {
		t.Errorf("path = %s, want /cv/confirm", got.path)
	}
	if got.query != "code=abc" {
		t.Errorf("query = %s, want code=abc", got.query)
	}
	if got.body != "payload" {
		t.Errorf("body = %q, want payload", got.body)
	}
	wantHost := strings.TrimPrefix(upstream.URL, "http://")
	if got.host != wantHost {
		t.Errorf("host = %s, want %s", got.host, wantHost)
	}
}

func TestForwarder_RelaysStatusAndBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer upstream.Close()

	f, err := NewForwarder("/cv", upstream.URL, discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cv/anything", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestForwarder_RewritesOrigin(t *testing.T) {
	var gotOrigin string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrigin = r.Header.Get("Origin")
	}))
	defer upstream.Close()

	f, err := NewForwarder("/cv", upstream.URL, discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cv/upload", nil)
	req.Header.Set("Origin", "http://admin.example.com")
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if gotOrigin != upstream.URL {
		t.Errorf("Origin = %s, want %s", gotOrigin, upstream.URL)
	}
}

func TestForwarder_UpstreamDown(t *testing.T) {
	// Bind then immediately close to get a refused port.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	f, err := NewForwarder("/cv", deadURL, discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cv/confirm", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "upstream unavailable") {
		t.Errorf("body = %q, want upstream unavailable message", rec.Body.String())
	}
}

func TestForwarder_Matches(t *testing.T) {
	f, err := NewForwarder("/cv", "http://backend:9000", discardLogger(), nil)
	if err != nil {
		t.Fatalf("NewForwarder: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/cv", true},
		{"/cv/upload", true},
		{"/cv/confirm?ignored", true},
		{"/cvextra", false},
		{"/", false},
		{"/admin/api/jobs", false},
	}

	for _, tt := range tests {
		// Matches takes a bare path; strip any query for the table.
		path := strings.SplitN(tt.path, "?", 2)[0]
		if got := f.Matches(path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", path, got, tt.want)
		}
	}
}

func TestNewForwarder_InvalidUpstream(t *testing.T) {
	if _, err := NewForwarder("/cv", "not a url", discardLogger(), nil); err == nil {
		t.Error("expected error for invalid upstream URL")
	}
	if _, err := NewForwarder("/cv", "/no-host", discardLogger(), nil); err == nil {
		t.Error("expected error for upstream without host")
	}
}
