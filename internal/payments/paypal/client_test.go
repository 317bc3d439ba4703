package paypal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTokenServer(t *testing.T, tokenRequests *int32, expiresIn string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(tokenRequests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","expires_in":` + expiresIn + `}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAccessToken_ConcurrentCallersShareOneFetch(t *testing.T) {
	var tokenRequests int32
	server := newTokenServer(t, &tokenRequests, "3600")
	client := NewClient("id", "secret", server.URL, "", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := client.accessToken(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "tok-1", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenRequests), "token is fetched once and reused")
}

func TestAccessToken_RefetchesWhenExpired(t *testing.T) {
	var tokenRequests int32
	// expires_in below the 60s refresh margin, so the cached token is always
	// treated as expired
	server := newTokenServer(t, &tokenRequests, "30")
	client := NewClient("id", "secret", server.URL, "", "")

	for i := 0; i < 2; i++ {
		token, err := client.accessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenRequests))
}
