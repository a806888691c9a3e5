package domain

import "time"

// Project is the tenancy unit: every testimonial and customer belongs to
// exactly one project, and every project belongs to exactly one owner.
type Project struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
