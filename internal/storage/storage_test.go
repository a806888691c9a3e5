package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	const base = "https://files.vouchwall.io"

	tests := []struct {
		name    string
		baseURL string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"owned file", base, "https://files.vouchwall.io/uploads/logo.png", "uploads/logo.png", true},
		{"base with trailing slash", base + "/", "https://files.vouchwall.io/uploads/logo.png", "uploads/logo.png", true},
		{"nested key", base, "https://files.vouchwall.io/p/abc/thumb-1.jpg", "p/abc/thumb-1.jpg", true},
		{"external url", base, "https://pbs.twimg.com/profile/ada.jpg", "", false},
		{"prefix lookalike host", base, "https://files.vouchwall.io.evil.com/x.png", "", false},
		{"bare base url", base, "https://files.vouchwall.io/", "", false},
		{"empty url", base, "", "", false},
		{"empty base", "", "https://files.vouchwall.io/x.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL(tt.baseURL, tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
