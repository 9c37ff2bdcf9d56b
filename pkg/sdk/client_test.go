package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Search(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq SearchRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"document": "gdpr.pdf", "relevance_score": 0.95, "content": "text",
				 "source": "id-1", "chunk_index": 0}
			],
			"query": "GDPR compliance",
			"total_found": 1
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("secret"))
	res, err := client.Search(context.Background(), SearchRequest{Query: "GDPR compliance", Limit: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/search" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization: got %q", gotAuth)
	}
	if gotReq.Query != "GDPR compliance" || gotReq.Limit != 4 {
		t.Errorf("request: got %+v", gotReq)
	}
	if res.TotalFound != 1 || res.Results[0].Document != "gdpr.pdf" {
		t.Errorf("result: got %+v", res)
	}
}

func TestClient_SearchErrorKinds(t *testing.T) {
	cases := []struct {
		kind   string
		status int
		want   error
	}{
		{"InvalidRequest", http.StatusBadRequest, ErrInvalidRequest},
		{"AuthError", http.StatusBadGateway, ErrAuth},
		{"BadQuery", http.StatusInternalServerError, ErrBadQuery},
		{"RateLimited", http.StatusTooManyRequests, ErrRateLimited},
		{"Unavailable", http.StatusServiceUnavailable, ErrUnavailable},
		{"MalformedResponse", http.StatusBadGateway, ErrMalformedResponse},
		{"Unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"SomethingNew", http.StatusInternalServerError, ErrInternal},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(errorResponse{Error: "detail", Kind: tc.kind})
			}))
			defer srv.Close()

			_, err := New(srv.URL).Search(context.Background(), SearchRequest{Query: "q"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("kind %s: expected %v, got %v", tc.kind, tc.want, err)
			}
		})
	}
}

func TestClient_SearchNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), SearchRequest{Query: "q"})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestClient_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"results": [], "query": "q", "total_found": 0}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Search(context.Background(), SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("authorization header must be absent, got %q", gotAuth)
	}
}
