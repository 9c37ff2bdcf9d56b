package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware_ValidKey(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}

func TestBearerAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic secret"},
		{"invalid key", "Bearer wrong"},
	}

	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rec.Code)
			}
			var body errorResponseDTO
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Kind != "Unauthorized" {
				t.Errorf("kind: got %q", body.Kind)
			}
		})
	}
}

func TestBearerAuthMiddleware_ExemptPaths(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200 without credentials", path, rec.Code)
		}
	}
}

func TestBearerAuthMiddleware_DisabledWithoutKeys(t *testing.T) {
	handler := BearerAuthMiddleware(nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200 when auth is disabled", rec.Code)
	}
}
