//go:build e2e

// Package e2e exercises a running gateway end to end: login, session
// persistence, preferences, the upload workflow surface, and logout.
//
// Requires a gateway at GATEWAY_BASE_URL (default http://localhost:3000).
// Backend-mediated checks are skipped when the backend origin is down.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"testing"
	"time"
)

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Identity  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"identity"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

func baseURL() string {
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

// newClient returns an HTTP client that carries the session cookie and
// does not follow redirects, so auth bounces are observable.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Timeout: 15 * time.Second,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func requireGateway(t *testing.T, client *http.Client) {
	t.Helper()
	resp, err := client.Get(baseURL() + "/healthz")
	if err != nil {
		t.Skipf("gateway not available at %s: %v", baseURL(), err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("gateway unhealthy: %d", resp.StatusCode)
	}
}

// login creates a session from a JSON identity token and returns the
// resolved session.
func login(t *testing.T, client *http.Client) sessionResponse {
	t.Helper()

	token := `{"id":"e2e-admin","email":"e2e@fapmendoza.com"}`
	body, _ := json.Marshal(map[string]string{"token": token})

	resp, err := client.Post(baseURL()+"/admin/api/session", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create session: status %d: %s", resp.StatusCode, raw)
	}

	var sess sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.Identity.ID != "e2e-admin" {
		t.Fatalf("unexpected identity: %+v", sess.Identity)
	}
	return sess
}

func TestE2ESmoke(t *testing.T) {
	client := newClient(t)
	requireGateway(t, client)

	// Unauthenticated API call is turned away with the login target.
	t.Run("unauthenticated is denied", func(t *testing.T) {
		resp, err := client.Get(baseURL() + "/admin/api/session")
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if e.Redirect == "" {
			t.Error("expected a login redirect target in the error body")
		}
	})

	sess := login(t, client)
	t.Logf("session %s", sess.SessionID)

	t.Run("session persists across requests", func(t *testing.T) {
		resp, err := client.Get(baseURL() + "/admin/api/session")
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var got sessionResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Identity.Email != "e2e@fapmendoza.com" {
			t.Errorf("identity did not round-trip: %+v", got.Identity)
		}
	})

	t.Run("prefs round-trip", func(t *testing.T) {
		body := strings.NewReader(`{"colorMode":"dark","sidebarOpen":false}`)
		req, _ := http.NewRequest(http.MethodPut, baseURL()+"/admin/api/prefs", body)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("update prefs: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update prefs: status %d", resp.StatusCode)
		}

		resp, err = client.Get(baseURL() + "/admin/api/prefs")
		if err != nil {
			t.Fatalf("read prefs: %v", err)
		}
		defer resp.Body.Close()

		var prefs struct {
			ColorMode   string `json:"colorMode"`
			SidebarOpen bool   `json:"sidebarOpen"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
			t.Fatalf("decode prefs: %v", err)
		}
		if prefs.ColorMode != "dark" || prefs.SidebarOpen {
			t.Errorf("prefs did not persist: %+v", prefs)
		}
	})

	t.Run("empty upload batch rejected locally", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("email", "nobody@example.com")
		mw.Close()

		req, _ := http.NewRequest(http.MethodPost, baseURL()+"/admin/api/uploads/cv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty batch, got %d", resp.StatusCode)
		}
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if e.Code != "NO_FILES" {
			t.Errorf("expected NO_FILES, got %s", e.Code)
		}
	})

	t.Run("upload batch through backend", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("files", "e2e-cv.txt")
		fmt.Fprint(part, "experienced gopher, remote only")
		mw.Close()

		req, _ := http.NewRequest(http.MethodPost, baseURL()+"/admin/api/uploads/cv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusBadGateway {
			t.Skip("backend origin not available")
		}
		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			t.Fatalf("submit: status %d: %s", resp.StatusCode, raw)
		}

		var outcome struct {
			BatchID string `json:"batch_id"`
			Results []struct {
				File string `json:"file"`
			} `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(outcome.Results) != 1 || outcome.Results[0].File != "e2e-cv.txt" {
			t.Errorf("unexpected results: %+v", outcome.Results)
		}

		// The result set is retrievable afterwards.
		resp2, err := client.Get(baseURL() + "/admin/api/uploads/last")
		if err != nil {
			t.Fatalf("read results: %v", err)
		}
		defer resp2.Body.Close()
		var last struct {
			BatchID string `json:"batch_id"`
		}
		if err := json.NewDecoder(resp2.Body).Decode(&last); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if last.BatchID != outcome.BatchID {
			t.Errorf("result set not persisted: %s vs %s", last.BatchID, outcome.BatchID)
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, baseURL()+"/admin/api/session", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("logout: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("logout: status %d", resp.StatusCode)
		}

		resp, err = client.Get(baseURL() + "/admin/api/session")
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
		}
	})
}

func TestSPAFallback(t *testing.T) {
	client := newClient(t)
	requireGateway(t, client)

	resp, err := client.Get(baseURL() + "/admin/some/client/route")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	// Unknown paths outside the API get the SPA shell, not a 404.
	if resp.StatusCode == http.StatusNotFound {
		t.Error("expected SPA fallback for client-side route, got 404")
	}
}
