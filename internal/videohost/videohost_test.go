package videohost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchwall/testimonial-service/pkg/httpclient"
)

func TestIsAssetUID(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"hosted asset uid", "31c9vab8e2f04aa0b3e5", true},
		{"mixed case uid", "Ab3xK9mPq2RtYw8z", true},
		{"too short", "abc123", false},
		{"empty", "", false},
		{"https url", "https://youtu.be/dQw4w9WgXcQ", false},
		{"path fragment", "videos/31c9vab8e2f04aa0", false},
		{"blob reference", "blob:https://app.example.com/uuid", false},
		{"filename with extension", "recording-2025-07-10.webm", false},
		{"uid with dash", "31c9vab8-e2f0-4aa0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssetUID(tt.ref))
		})
	}
}

func newTestClient(t *testing.T, serverURL string) *HTTPClient {
	t.Helper()
	cfg := httpclient.Config{
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	}
	return NewHTTPClient(httpclient.New(cfg), serverURL, "test-token")
}

func TestHTTPClient_DeleteAsset_Success(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.DeleteAsset(context.Background(), "31c9vab8e2f04aa0b3e5")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/videos/31c9vab8e2f04aa0b3e5", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestHTTPClient_DeleteAsset_AlreadyGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// A missing asset is treated as deleted.
	err := client.DeleteAsset(context.Background(), "31c9vab8e2f04aa0b3e5")
	assert.NoError(t, err)
}

func TestHTTPClient_DeleteAsset_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	err := client.DeleteAsset(context.Background(), "31c9vab8e2f04aa0b3e5")
	assert.Error(t, err)
}
