package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerAuth_ServiceKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		path    string
		header  string
		want    int
		wantErr string
	}{
		{"auth disabled", nil, "/api/v1/search", "", http.StatusOK, ""},
		{"blank keys disable auth", []string{"", ""}, "/api/v1/recommendations", "", http.StatusOK, ""},
		{"missing header", []string{"svc-key"}, "/api/v1/search", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic scheme", []string{"svc-key"}, "/api/v1/search", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"unknown key", []string{"svc-key"}, "/api/v1/recommendations", "Bearer other", http.StatusUnauthorized, ""},
		{"known key", []string{"svc-key"}, "/api/v1/search", "Bearer svc-key", http.StatusOK, ""},
		{"second key", []string{"web", "batch"}, "/api/v1/search", "Bearer batch", http.StatusOK, ""},
		{"health exempt", []string{"svc-key"}, "/health", "", http.StatusOK, ""},
		{"metrics exempt", []string{"svc-key"}, "/metrics", "", http.StatusOK, ""},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tc.keys)(ok).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}
			var resp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("error response: got %+v", resp)
			}
			if tc.wantErr != "" && resp.Error != tc.wantErr {
				t.Errorf("error: got %q, want %q", resp.Error, tc.wantErr)
			}
		})
	}
}

func TestBearerAuth_UserTokenTravelsAlongsideServiceKey(t *testing.T) {
	s := &fakeSearcher{}
	router := NewRouter(NewServer(s, &fakeRecommender{}, nil, nil), nil,
		RouterOptions{APIKeys: []string{"svc-key"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=mug", http.NoBody)
	req.Header.Set("Authorization", "Bearer svc-key")
	req.Header.Set(UserTokenHeader, "student-jwt")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if s.gotRC.UserToken != "student-jwt" {
		t.Errorf("user token: got %q, want %q", s.gotRC.UserToken, "student-jwt")
	}
}

func TestBearerAuth_UserTokenIsNotAServiceKey(t *testing.T) {
	s := &fakeSearcher{}
	router := NewRouter(NewServer(s, &fakeRecommender{}, nil, nil), nil,
		RouterOptions{APIKeys: []string{"svc-key"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=mug", http.NoBody)
	req.Header.Set(UserTokenHeader, "svc-key")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
	if s.calls != 0 {
		t.Errorf("searcher called %d times without a service key", s.calls)
	}
}
