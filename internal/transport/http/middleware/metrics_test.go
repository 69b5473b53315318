package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			"UUID replacement",
			"/links/550e8400-e29b-41d4-a716-446655440000/stats",
			"/links/:id/stats",
		},
		{
			"ObjectID replacement",
			"/links/507f1f77bcf86cd799439011/stats",
			"/links/:id/stats",
		},
		{
			"numeric ID replacement",
			"/links/12345",
			"/links/:id",
		},
		{
			"no change for short code path",
			"/links/abcXYZ",
			"/links/abcXYZ",
		},
		{
			"multiple UUIDs",
			"/users/550e8400-e29b-41d4-a716-446655440000/links/660e8400-e29b-41d4-a716-446655440001",
			"/users/:id/links/:id",
		},
		{
			"root path unchanged",
			"/",
			"/",
		},
		{
			"health endpoint unchanged",
			"/health",
			"/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizePath(tt.path)
			if got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRouteLabel(t *testing.T) {
	mux := http.NewServeMux()
	var got string
	mux.HandleFunc("GET /{code}", func(w http.ResponseWriter, r *http.Request) {
		got = routeLabel(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abc123", nil))
	if got != "GET /{code}" {
		t.Errorf("expected mux pattern, got %q", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/unknown/42", nil)
	if got := routeLabel(r); got != "/unknown/:id" {
		t.Errorf("expected normalized path, got %q", got)
	}
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/links", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}
