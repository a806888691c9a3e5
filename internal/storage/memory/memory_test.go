package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vouchwall/testimonial-service/internal/storage"
)

func upload(t *testing.T, s *Storage, key string) *storage.UploadResult {
	t.Helper()
	res, err := s.Upload(context.Background(), &storage.UploadInput{
		Key:         key,
		ContentType: "image/png",
		Size:        128,
		Data:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	return res
}

func TestStorage_UploadAndGetURL(t *testing.T) {
	s := New("https://files.vouchwall.test")

	res := upload(t, s, "uploads/logo.png")
	assert.Equal(t, "uploads/logo.png", res.Key)
	assert.Equal(t, "https://files.vouchwall.test/uploads/logo.png", res.URL)

	url, err := s.GetURL(context.Background(), "uploads/logo.png")
	require.NoError(t, err)
	assert.Equal(t, res.URL, url)
}

func TestStorage_Delete(t *testing.T) {
	s := New("https://files.vouchwall.test")
	upload(t, s, "uploads/logo.png")

	require.NoError(t, s.Delete(context.Background(), "uploads/logo.png"))

	_, err := s.GetURL(context.Background(), "uploads/logo.png")
	assert.Error(t, err)
}

func TestStorage_Delete_Missing(t *testing.T) {
	s := New("https://files.vouchwall.test")

	err := s.Delete(context.Background(), "never-uploaded.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestStorage_BatchDelete_PartialFailure(t *testing.T) {
	s := New("https://files.vouchwall.test")
	upload(t, s, "a.png")
	upload(t, s, "c.png")

	failed, err := s.BatchDelete(context.Background(), []string{"a.png", "b.png", "c.png"})

	// Existing keys are removed even though one key failed.
	assert.Equal(t, []string{"b.png"}, failed)
	assert.Error(t, err)

	_, errA := s.GetURL(context.Background(), "a.png")
	assert.Error(t, errA)
	_, errC := s.GetURL(context.Background(), "c.png")
	assert.Error(t, errC)
}

func TestStorage_BatchDelete_AllSucceed(t *testing.T) {
	s := New("https://files.vouchwall.test")
	upload(t, s, "a.png")

	failed, err := s.BatchDelete(context.Background(), []string{"a.png"})
	assert.NoError(t, err)
	assert.Empty(t, failed)
}
