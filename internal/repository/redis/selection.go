package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "selection:"

// SelectionRepository implements repository.SelectionRepository using Redis.
// Selections have no TTL; a surface keeps its curated list until it is
// overwritten.
type SelectionRepository struct {
	client *redis.Client
}

// NewSelectionRepository creates a new Redis-backed selection repository.
func NewSelectionRepository(client *redis.Client) *SelectionRepository {
	return &SelectionRepository{client: client}
}

func selectionKey(projectID, surfaceID string) string {
	return keyPrefix + projectID + ":" + surfaceID
}

// Get retrieves the ordered id list stored for a display surface. A missing
// key means the surface has no selection yet and yields an empty list, not
// an error.
func (r *SelectionRepository) Get(ctx context.Context, projectID, surfaceID string) ([]string, error) {
	data, err := r.client.Get(ctx, selectionKey(projectID, surfaceID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil
		}
		return nil, fmt.Errorf("redis get selection: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal selection: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// Put stores the ordered id list for a display surface, replacing any
// previous list.
func (r *SelectionRepository) Put(ctx context.Context, projectID, surfaceID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}

	if err := r.client.Set(ctx, selectionKey(projectID, surfaceID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set selection: %w", err)
	}

	return nil
}
