package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSelection_DropsMissingIDs(t *testing.T) {
	records := []Testimonial{
		{ID: "id1"},
		{ID: "id3"},
	}

	existing, ids := ResolveSelection([]string{"id1", "id2", "id3"}, records)

	assert.Equal(t, []string{"id1", "id3"}, ids)
	assert.Len(t, existing, 2)
	assert.Equal(t, "id1", existing[0].ID)
	assert.Equal(t, "id3", existing[1].ID)
}

func TestResolveSelection_PreservesSelectionOrder(t *testing.T) {
	// Resolver may return records in any order; the selection order wins.
	records := []Testimonial{
		{ID: "id2"},
		{ID: "id1"},
	}

	existing, ids := ResolveSelection([]string{"id1", "id2"}, records)

	assert.Equal(t, []string{"id1", "id2"}, ids)
	assert.Equal(t, "id1", existing[0].ID)
	assert.Equal(t, "id2", existing[1].ID)
}

func TestResolveSelection_AllDeleted(t *testing.T) {
	existing, ids := ResolveSelection([]string{"id1", "id2"}, nil)

	assert.Empty(t, existing)
	assert.Empty(t, ids)
	assert.NotNil(t, existing)
	assert.NotNil(t, ids)
}

func TestResolveSelection_EmptySelection(t *testing.T) {
	existing, ids := ResolveSelection(nil, []Testimonial{{ID: "id1"}})

	assert.Empty(t, existing)
	assert.Empty(t, ids)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail(strPtr("  Jane@Example.COM ")))
	assert.Equal(t, "", NormalizeEmail(nil))
	assert.Equal(t, "", NormalizeEmail(strPtr("   ")))
}
