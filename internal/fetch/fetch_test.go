package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestClientGet tests successful and failing requests.
func TestClientGet(t *testing.T) {
	t.Parallel()

	t.Run("returns body and sends user agent", func(t *testing.T) {
		t.Parallel()

		uaCh := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uaCh <- r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>hello</p>"))
		}))
		defer server.Close()

		c := NewClient(server.Client(), WithUserAgent("newsbrief-test"))
		resp, err := c.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != "<p>hello</p>" {
			t.Errorf("unexpected body %q", resp.Body)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if gotUA := <-uaCh; gotUA != "newsbrief-test" {
			t.Errorf("expected user agent to be sent, got %q", gotUA)
		}
	})

	t.Run("non-2xx status is an Error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		c := NewClient(server.Client())
		_, err := c.Get(context.Background(), server.URL)

		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatalf("expected *Error, got %T: %v", err, err)
		}
		if fe.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", fe.StatusCode)
		}
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Error("expected ErrUnexpectedStatus to be wrapped")
		}
		if code, ok := IsStatus(err); !ok || code != http.StatusForbidden {
			t.Errorf("IsStatus: got (%d, %v)", code, ok)
		}
	})

	t.Run("transport failure is an Error without status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewClient(nil)
		_, err := c.Get(context.Background(), url)

		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatalf("expected *Error, got %T: %v", err, err)
		}
		if _, ok := IsStatus(err); ok {
			t.Error("expected no status for transport failure")
		}
	})

	t.Run("malformed url is an Error", func(t *testing.T) {
		t.Parallel()

		c := NewClient(nil)
		if _, err := c.Get(context.Background(), "http://[::1"); err == nil {
			t.Error("expected error for malformed url")
		}
	})

	t.Run("context deadline aborts request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		c := NewClient(server.Client())
		if _, err := c.Get(ctx, server.URL); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("body is capped at max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
		}))
		defer server.Close()

		c := NewClient(server.Client(), WithMaxBodySize(100))
		resp, err := c.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Body) != 100 {
			t.Errorf("expected 100 bytes, got %d", len(resp.Body))
		}
	})

	t.Run("latin-1 body is decoded to utf-8", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
		}))
		defer server.Close()

		c := NewClient(server.Client())
		resp, err := c.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != "café" {
			t.Errorf("expected decoded body, got %q", resp.Body)
		}
	})
}

// TestErrorMessage tests the error text.
func TestErrorMessage(t *testing.T) {
	t.Parallel()

	withStatus := &Error{URL: "https://example.com", StatusCode: 500, Err: ErrUnexpectedStatus}
	if !strings.Contains(withStatus.Error(), "500") {
		t.Errorf("expected status in message: %s", withStatus.Error())
	}

	transport := &Error{URL: "https://example.com", Err: errors.New("connection refused")}
	if !strings.Contains(transport.Error(), "connection refused") {
		t.Errorf("expected cause in message: %s", transport.Error())
	}
}
