package repository

import (
	"context"

	"github.com/vouchwall/testimonial-service/internal/domain"
)

// Sort keys accepted by TestimonialRepository.List.
const (
	SortByCreatedAt  = "created_at"
	SortByRating     = "rating"
	SortByAuthorName = "author_name"
)

// TestimonialFilter defines the query criteria for listing testimonials.
// ProjectID is mandatory; every read is project-scoped.
type TestimonialFilter struct {
	ProjectID string
	Type      *string
	Source    *string
	Search    *string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// TestimonialRepository defines the interface for testimonial persistence operations.
type TestimonialRepository interface {
	// Create inserts a new testimonial record into the store.
	Create(ctx context.Context, t *domain.Testimonial) error

	// GetByID retrieves a testimonial by id within a project.
	GetByID(ctx context.Context, projectID, id string) (*domain.Testimonial, error)

	// GetByIDs retrieves the testimonials matching the given ids within a
	// project. Missing ids are simply absent from the result; the order of
	// the returned slice is unspecified.
	GetByIDs(ctx context.Context, projectID string, ids []string) ([]domain.Testimonial, error)

	// List returns testimonials matching the filter along with the total count.
	List(ctx context.Context, filter TestimonialFilter) ([]domain.Testimonial, int, error)

	// ListRecent returns the most recently created testimonials for a project.
	ListRecent(ctx context.Context, projectID string, limit int) ([]domain.Testimonial, error)

	// Update modifies an existing testimonial record.
	Update(ctx context.Context, t *domain.Testimonial) error

	// UpdateStatus changes only the lifecycle status of a testimonial.
	UpdateStatus(ctx context.Context, projectID, id, status string) error

	// Delete removes a testimonial row scoped by id and owner.
	Delete(ctx context.Context, ownerID, id string) error

	// CountByVideoRef counts testimonials in a project that reference the
	// given video asset, excluding the record identified by excludeID. The
	// deletion orchestrator uses this as the reference-count check before
	// remote asset deletion.
	CountByVideoRef(ctx context.Context, projectID, videoRef, excludeID string) (int, error)
}

// CustomerRepository defines the interface for customer persistence operations.
type CustomerRepository interface {
	// Create inserts a new customer. A unique-constraint violation on the
	// per-project email index surfaces as DuplicateEmail.
	Create(ctx context.Context, c *domain.Customer) error

	// GetByID retrieves a customer by id within a project.
	GetByID(ctx context.Context, projectID, id string) (*domain.Customer, error)

	// FindByEmail looks up a customer by normalized email within a project.
	// Returns ErrNotFound when no customer holds the email.
	FindByEmail(ctx context.Context, projectID, email string) (*domain.Customer, error)

	// Update modifies an existing customer. A unique-constraint violation
	// on the email index surfaces as DuplicateEmail.
	Update(ctx context.Context, c *domain.Customer) error
}

// ProjectRepository defines the interface for project lookups.
type ProjectRepository interface {
	// Create inserts a new project.
	Create(ctx context.Context, p *domain.Project) error

	// GetByID retrieves a project by id.
	GetByID(ctx context.Context, id string) (*domain.Project, error)
}

// SelectionRepository persists ordered testimonial id lists per display surface.
type SelectionRepository interface {
	// Get returns the persisted id list for a surface, or an empty list
	// when none has been stored.
	Get(ctx context.Context, projectID, surfaceID string) ([]string, error)

	// Put stores the ordered id list for a surface, replacing any previous list.
	Put(ctx context.Context, projectID, surfaceID string, ids []string) error
}
