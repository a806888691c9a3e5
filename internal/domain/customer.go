package domain

import (
	"strings"
	"time"
)

// Customer is the deduplicated identity of a testimonial submitter, keyed by
// normalized email within a project. A customer is never deleted as a side
// effect of testimonial deletion.
type Customer struct {
	ID             string            `json:"id"`
	ProjectID      string            `json:"project_id"`
	Email          *string           `json:"email,omitempty"`
	FullName       string            `json:"full_name"`
	Headline       string            `json:"headline,omitempty"`
	Company        *Company          `json:"company,omitempty"`
	SocialProfiles map[string]string `json:"social_profiles,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NormalizeEmail trims whitespace and lowercases an email for dedup matching.
// Returns "" for a nil or blank email, which means "no email" everywhere.
func NormalizeEmail(email *string) string {
	if email == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*email))
}
