package domain

// ResolveSelection filters a persisted ordered id list against the records
// that actually exist. Ids with no matching record are dropped silently, so a
// display surface that still references deleted testimonials self-heals on
// load instead of erroring. The returned records preserve the original id
// order; the returned id list is the cleaned list the caller should
// re-persist.
func ResolveSelection(ids []string, records []Testimonial) ([]Testimonial, []string) {
	byID := make(map[string]Testimonial, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	existing := make([]Testimonial, 0, len(ids))
	existingIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			existing = append(existing, r)
			existingIDs = append(existingIDs, id)
		}
	}

	return existing, existingIDs
}
