package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func tokenServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetTokenAndSetAuthHeader(t *testing.T) {
	var hits atomic.Int32
	server := tokenServer(t, &hits)

	cfg := Conf{ClientID: "id", ClientSecret: "secret", AuthURL: server.URL}
	client := NewClientCred(cfg)

	token, err := client.GetToken()
	if err != nil {
		t.Fatalf("GetToken returned error: %v", err)
	}
	if token != "token123" {
		t.Fatalf("unexpected token %s", token)
	}

	req, _ := http.NewRequest("GET", "http://example.com", nil)
	if err := client.SetAuthHeader(req); err != nil {
		t.Fatalf("SetAuthHeader returned error: %v", err)
	}
	if auth := req.Header.Get("Authorization"); auth != "Bearer token123" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
	if hits.Load() != 1 {
		t.Fatalf("token should be cached, endpoint hit %d times", hits.Load())
	}
}

func TestGetToken_Concurrent(t *testing.T) {
	var hits atomic.Int32
	server := tokenServer(t, &hits)
	client := NewClientCred(Conf{ClientID: "id", AuthURL: server.URL})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.GetToken(); err != nil {
				t.Errorf("GetToken: %v", err)
			}
		}()
	}
	wg.Wait()
	if hits.Load() != 1 {
		t.Fatalf("expected a single token request, got %d", hits.Load())
	}
}

func TestForceRefresh(t *testing.T) {
	var hits atomic.Int32
	server := tokenServer(t, &hits)
	client := NewClientCred(Conf{ClientID: "id", AuthURL: server.URL})
	if _, err := client.GetToken(); err != nil {
		t.Fatal(err)
	}
	if _, err := client.ForceRefresh(); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refresh to hit the endpoint, got %d", hits.Load())
	}
}

func TestGetToken_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer server.Close()
	client := NewClientCred(Conf{ClientID: "id", AuthURL: server.URL})
	if _, err := client.GetToken(); err == nil {
		t.Fatal("expected error")
	}
}
