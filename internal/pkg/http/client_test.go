//nolint:revive,nolintlint // var-naming: package name matches the package being tested
package http

import (
	"context"
	"fmt"
	gohttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestNewSessionClient(t *testing.T) {
	t.Parallel()

	c := NewSessionClient()
	if c == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestSessionClient_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		responseBody   string
		responseStatus int
		wantBody       string
		wantStatus     int
	}{
		{
			name:           "successful request",
			responseBody:   "<html><body>Your Account</body></html>",
			responseStatus: gohttp.StatusOK,
			wantBody:       "<html><body>Your Account</body></html>",
			wantStatus:     gohttp.StatusOK,
		},
		{
			name:           "non-200 status still returns body and status",
			responseBody:   "Not Found",
			responseStatus: gohttp.StatusNotFound,
			wantBody:       "Not Found",
			wantStatus:     gohttp.StatusNotFound,
		},
		{
			name:           "server error",
			responseBody:   "boom",
			responseStatus: gohttp.StatusInternalServerError,
			wantBody:       "boom",
			wantStatus:     gohttp.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
				w.WriteHeader(tt.responseStatus)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			c := NewSessionClient()
			defer c.Close()

			page, err := c.Get(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if page.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", page.Body, tt.wantBody)
			}
			if page.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", page.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestSessionClient_CookiesPersistAcrossRequests(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		switch r.URL.Path {
		case "/login":
			gohttp.SetCookie(w, &gohttp.Cookie{Name: "_session_id", Value: "abc123"})
			_, _ = w.Write([]byte("logged in"))
		default:
			cookie, err := r.Cookie("_session_id")
			if err != nil {
				w.WriteHeader(gohttp.StatusUnauthorized)
				return
			}
			_, _ = fmt.Fprintf(w, "session=%s", cookie.Value)
		}
	}))
	defer server.Close()

	c := NewSessionClient()
	defer c.Close()

	if _, err := c.PostForm(context.Background(), server.URL+"/login", url.Values{"email": {"a@b.nz"}}); err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}

	page, err := c.Get(context.Background(), server.URL+"/account")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if page.StatusCode != gohttp.StatusOK {
		t.Fatalf("StatusCode = %d, want %d (cookie not replayed)", page.StatusCode, gohttp.StatusOK)
	}
	if page.Body != "session=abc123" {
		t.Errorf("Body = %q, want %q", page.Body, "session=abc123")
	}
}

func TestSessionClient_FollowsRedirectsAndReportsFinalURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		switch r.URL.Path {
		case "/":
			gohttp.Redirect(w, r, "/customers/482931", gohttp.StatusFound)
		default:
			_, _ = w.Write([]byte("balance page"))
		}
	}))
	defer server.Close()

	c := NewSessionClient()
	defer c.Close()

	page, err := c.PostForm(context.Background(), server.URL+"/", url.Values{"email": {"a@b.nz"}})
	if err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if want := server.URL + "/customers/482931"; page.FinalURL != want {
		t.Errorf("FinalURL = %q, want %q", page.FinalURL, want)
	}
	if page.Body != "balance page" {
		t.Errorf("Body = %q, want %q", page.Body, "balance page")
	}
}

func TestSessionClient_PostForm_SendsEncodedBody(t *testing.T) {
	t.Parallel()

	var gotContentType, gotToken, gotEmail string
	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotToken = r.PostFormValue("authenticity_token")
		gotEmail = r.PostFormValue("email")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewSessionClient()
	defer c.Close()

	form := url.Values{
		"authenticity_token": {"tok=="},
		"email":              {"user@example.co.nz"},
	}
	if _, err := c.PostForm(context.Background(), server.URL, form); err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q, want form encoding", gotContentType)
	}
	if gotToken != "tok==" {
		t.Errorf("authenticity_token = %q, want %q", gotToken, "tok==")
	}
	if gotEmail != "user@example.co.nz" {
		t.Errorf("email = %q, want %q", gotEmail, "user@example.co.nz")
	}
}

func TestSessionClient_BrowserHeadersSent(t *testing.T) {
	t.Parallel()

	var gotHeaders gohttp.Header
	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		gotHeaders = r.Header
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewSessionClient()
	defer c.Close()

	if _, err := c.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got := gotHeaders.Get("User-Agent"); got != userAgent {
		t.Errorf("User-Agent = %q, want %q", got, userAgent)
	}
	if got := gotHeaders.Get("Accept"); got == "" {
		t.Error("Accept header should be set by default")
	}
}

func TestSessionClient_Close_IsIdempotentAndReopens(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewSessionClient()

	if _, err := c.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	c.Close()
	c.Close() // no-op on an already closed session

	// A request after Close opens a fresh session.
	page, err := c.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() after Close error = %v", err)
	}
	if page.Body != "ok" {
		t.Errorf("Body = %q, want %q", page.Body, "ok")
	}
}

func TestSessionClient_Get_InvalidURL(t *testing.T) {
	t.Parallel()

	c := NewSessionClient()
	defer c.Close()

	if _, err := c.Get(context.Background(), "://invalid-url"); err == nil {
		t.Error("Get() expected error for invalid URL")
	}
}

func TestSessionClient_Get_ConnectionError(t *testing.T) {
	t.Parallel()

	c := NewSessionClient()
	defer c.Close()

	if _, err := c.Get(context.Background(), "http://localhost:1"); err == nil {
		t.Error("Get() expected error for connection failure")
	}
}
