package videohost

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/vouchwall/testimonial-service/pkg/httpclient"
)

// Client defines the interface for the external video hosting provider.
// The deletion orchestrator uses it to remove video assets once no
// testimonial references them.
type Client interface {
	// DeleteAsset removes a hosted video by its asset UID.
	DeleteAsset(ctx context.Context, uid string) error
}

// IsAssetUID reports whether a video reference is a hosted asset UID rather
// than an external URL or an in-browser blob. Only hosted assets are
// deletable through the provider API.
func IsAssetUID(ref string) bool {
	if len(ref) <= 10 {
		return false
	}
	if strings.Contains(ref, "/") || strings.Contains(ref, ".") || strings.Contains(ref, ":") {
		return false
	}
	for _, r := range ref {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPClient calls the video hosting provider over its REST API.
type HTTPClient struct {
	client   HTTPDoer
	baseURL  string
	apiToken string
}

// NewHTTPClient creates a video host client for the given API base URL.
func NewHTTPClient(client HTTPDoer, baseURL, apiToken string) *HTTPClient {
	return &HTTPClient{
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
	}
}

// DeleteAsset removes a hosted video by UID. A 404 from the provider means
// the asset is already gone and counts as success so retried cleanups stay
// idempotent.
func (c *HTTPClient) DeleteAsset(ctx context.Context, uid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/videos/"+uid, nil)
	if err != nil {
		return fmt.Errorf("create delete asset request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call video host: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return nil
	default:
		return httpclient.ParseResponseError(resp, "video host")
	}
}
