package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPChecker_UnauthorizedIsReachable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no token", http.StatusUnauthorized)
	}))
	defer s.Close()

	out := NewHTTPChecker(2*time.Second).Check(context.Background(), s.URL)
	if !out.Reachable {
		t.Fatalf("want reachable, got %+v", out)
	}
	if out.StatusCode != 401 || !strings.HasPrefix(out.Message, "401") {
		t.Fatalf("unexpected result %+v", out)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %f", out.LatencyMS)
	}
}

func TestHTTPChecker_Status500(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	out := NewHTTPChecker(2*time.Second).Check(context.Background(), s.URL)
	if out.Reachable || out.StatusCode != 500 {
		t.Fatalf("want unreachable 500, got %+v", out)
	}
}

func TestHTTPChecker_TimeoutSetsStatusZero(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	out := NewHTTPChecker(50*time.Millisecond).Check(context.Background(), s.URL)
	if out.Reachable {
		t.Fatalf("want failure due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 || out.Message == "" {
		t.Fatalf("want status 0 and an error message, got %+v", out)
	}
}
