package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/vouchwall/testimonial-service/pkg/errors"

	"github.com/vouchwall/testimonial-service/internal/storage"
	"github.com/vouchwall/testimonial-service/internal/videohost"
)

// CleanupWarning reports a media cleanup step that failed during a delete.
// Warnings ride alongside a successful delete; they are never an error. Only
// the row deletion itself can fail the call.
type CleanupWarning struct {
	Resource string `json:"resource"`
	Ref      string `json:"ref"`
	Reason   string `json:"reason"`
}

func (w CleanupWarning) String() string {
	return fmt.Sprintf("%s %q: %s", w.Resource, w.Ref, w.Reason)
}

// Delete removes a testimonial and cleans up the external media its document
// references. Cleanup order: reference-counted video asset first, then a
// best-effort batch removal of owned static files, then the row itself. The
// row deletion is the only fatal step. The customer entity is never touched.
func (s *TestimonialService) Delete(ctx context.Context, userID, projectID, id string) ([]CleanupWarning, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("get testimonial for delete: %w", err)
	}

	warnings := []CleanupWarning{}

	videoRef := t.Document.VideoRef()
	if videoRef != "" && videohost.IsAssetUID(videoRef) {
		warnings = append(warnings, s.cleanupVideoAsset(ctx, projectID, id, videoRef)...)
	}

	warnings = append(warnings, s.cleanupStaticFiles(ctx, t.Document.MediaRefs(), videoRef)...)

	if err := s.repo.Delete(ctx, t.OwnerID, id); err != nil {
		return nil, fmt.Errorf("delete testimonial: %w", err)
	}

	if err := s.producer.PublishTestimonialDeleted(ctx, projectID, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish testimonial.deleted event",
			slog.String("testimonial_id", id),
			slog.String("error", err.Error()),
		)
	}

	for _, w := range warnings {
		s.logger.WarnContext(ctx, "cleanup warning",
			slog.String("testimonial_id", id),
			slog.String("resource", w.Resource),
			slog.String("ref", w.Ref),
			slog.String("reason", w.Reason),
		)
	}

	s.logger.InfoContext(ctx, "testimonial deleted",
		slog.String("testimonial_id", id),
		slog.String("project_id", projectID),
		slog.Int("cleanup_warnings", len(warnings)),
	)

	return warnings, nil
}

// cleanupVideoAsset deletes the hosted video asset unless a sibling record in
// the same project still references it. The count-then-delete window against
// a concurrent sibling delete is accepted; this is leak avoidance, not a
// hard guarantee.
func (s *TestimonialService) cleanupVideoAsset(ctx context.Context, projectID, excludeID, videoRef string) []CleanupWarning {
	count, err := s.repo.CountByVideoRef(ctx, projectID, videoRef, excludeID)
	if err != nil {
		// Without a trustworthy count, keep the asset.
		return []CleanupWarning{{
			Resource: "video",
			Ref:      videoRef,
			Reason:   fmt.Sprintf("reference count failed: %v", err),
		}}
	}

	if count > 0 {
		s.logger.DebugContext(ctx, "video asset kept, still referenced",
			slog.String("video_ref", videoRef),
			slog.Int("references", count),
		)
		return nil
	}

	if err := s.videoHost.DeleteAsset(ctx, videoRef); err != nil {
		return []CleanupWarning{{
			Resource: "video",
			Ref:      videoRef,
			Reason:   fmt.Sprintf("remote delete failed: %v", err),
		}}
	}

	return nil
}

// cleanupStaticFiles batch-deletes the document's owned static files. URLs
// outside the public storage prefix (external images, the video reference)
// are skipped; they are not ours to delete.
func (s *TestimonialService) cleanupStaticFiles(ctx context.Context, refs []string, videoRef string) []CleanupWarning {
	var (
		keys  []string
		byKey = map[string]string{}
	)

	for _, ref := range refs {
		if ref == videoRef {
			continue
		}
		key, ok := storage.KeyFromURL(s.publicBaseURL, ref)
		if !ok {
			continue
		}
		if _, seen := byKey[key]; seen {
			continue
		}
		byKey[key] = ref
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil
	}

	failed, err := s.store.BatchDelete(ctx, keys)
	if len(failed) == 0 && err == nil {
		return nil
	}

	var warnings []CleanupWarning
	for _, key := range failed {
		warnings = append(warnings, CleanupWarning{
			Resource: "file",
			Ref:      byKey[key],
			Reason:   fmt.Sprintf("storage delete failed: %v", err),
		})
	}
	if len(warnings) == 0 && err != nil {
		warnings = append(warnings, CleanupWarning{
			Resource: "file",
			Reason:   fmt.Sprintf("storage batch delete failed: %v", err),
		})
	}

	return warnings
}
