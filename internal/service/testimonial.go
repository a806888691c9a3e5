package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/vouchwall/testimonial-service/pkg/errors"

	"github.com/vouchwall/testimonial-service/internal/domain"
	"github.com/vouchwall/testimonial-service/internal/event"
	"github.com/vouchwall/testimonial-service/internal/repository"
	"github.com/vouchwall/testimonial-service/internal/storage"
	"github.com/vouchwall/testimonial-service/internal/videohost"
)

const (
	// maxRecentLimit caps the get-recent convenience read.
	maxRecentLimit     = 50
	defaultRecentLimit = 10
)

// TestimonialService implements the business logic for testimonial operations:
// querying, document mutation, customer identity resolution, deletion cleanup,
// and selection-set resolution.
type TestimonialService struct {
	repo          repository.TestimonialRepository
	customers     repository.CustomerRepository
	projects      repository.ProjectRepository
	selections    repository.SelectionRepository
	store         storage.Storage
	videoHost     videohost.Client
	producer      *event.Producer
	logger        *slog.Logger
	publicBaseURL string
}

// NewTestimonialService creates a new testimonial service. publicBaseURL is
// the public prefix under which stored static files are served; cleanup uses
// it to map document URLs back to storage keys.
func NewTestimonialService(
	repo repository.TestimonialRepository,
	customers repository.CustomerRepository,
	projects repository.ProjectRepository,
	selections repository.SelectionRepository,
	store storage.Storage,
	videoHost videohost.Client,
	producer *event.Producer,
	logger *slog.Logger,
	publicBaseURL string,
) *TestimonialService {
	return &TestimonialService{
		repo:          repo,
		customers:     customers,
		projects:      projects,
		selections:    selections,
		store:         store,
		videoHost:     videoHost,
		producer:      producer,
		logger:        logger,
		publicBaseURL: publicBaseURL,
	}
}

// authorizeProject verifies the project exists and belongs to the caller.
// Every operation is project-scoped; a missing or foreign project is always
// Unauthorized, never NotFound, so callers cannot probe for project ids.
func (s *TestimonialService) authorizeProject(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user id is required")
	}
	if projectID == "" {
		return nil, apperrors.Unauthorized("project id is required")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("project does not belong to caller")
		}
		return nil, fmt.Errorf("load project: %w", err)
	}

	if project.OwnerID != userID {
		return nil, apperrors.Unauthorized("project does not belong to caller")
	}

	return project, nil
}

// ListInput holds the query criteria for listing testimonials.
type ListInput struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
	Type      string
	Source    string
	Search    string
}

// List returns a page of testimonial view models and the total match count.
func (s *TestimonialService) List(ctx context.Context, userID, projectID string, input ListInput) ([]domain.ViewModel, int, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, 0, err
	}

	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PerPage <= 0 {
		input.PerPage = 20
	}
	if input.PerPage > 100 {
		input.PerPage = 100
	}

	switch input.SortBy {
	case "", repository.SortByCreatedAt, repository.SortByRating, repository.SortByAuthorName:
	default:
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("sort_by %q is not supported", input.SortBy))
	}

	filter := repository.TestimonialFilter{
		ProjectID: projectID,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Page:      input.Page,
		PerPage:   input.PerPage,
	}

	if input.Type != "" && input.Type != "all" {
		if !domain.IsValidType(input.Type) {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("type %q is not supported", input.Type))
		}
		filter.Type = &input.Type
	}
	if input.Source != "" {
		filter.Source = &input.Source
	}
	if input.Search != "" {
		filter.Search = &input.Search
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}

	return toViewModels(records), total, nil
}

// GetByIDs returns the view models for the given ids in input order.
// Ids with no matching record are silently dropped.
func (s *TestimonialService) GetByIDs(ctx context.Context, userID, projectID string, ids []string) ([]domain.ViewModel, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	records, err := s.repo.GetByIDs(ctx, projectID, ids)
	if err != nil {
		return nil, fmt.Errorf("get testimonials by ids: %w", err)
	}

	ordered, _ := domain.ResolveSelection(ids, records)
	return toViewModels(ordered), nil
}

// GetRecent returns the most recently created testimonials for a project.
func (s *TestimonialService) GetRecent(ctx context.Context, userID, projectID string, limit int) ([]domain.ViewModel, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := s.repo.ListRecent(ctx, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent testimonials: %w", err)
	}

	return toViewModels(records), nil
}

// CreateTestimonialInput holds the parameters for creating a testimonial.
type CreateTestimonialInput struct {
	Type     string
	Status   string
	Document domain.Document
}

// Create persists a new testimonial, resolving the submitter's customer
// identity from the document email.
func (s *TestimonialService) Create(ctx context.Context, userID, projectID string, input CreateTestimonialInput) (*domain.Testimonial, error) {
	project, err := s.authorizeProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = domain.TypeText
	}
	if !domain.IsValidType(input.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("type %q is not supported", input.Type))
	}
	if input.Status == "" {
		input.Status = domain.StatusPending
	}
	if !domain.IsValidStatus(input.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("status %q is not supported", input.Status))
	}

	customerID, createdCustomer, err := s.resolveCustomer(ctx, projectID, nil, input.Document)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Testimonial{
		ID:         uuid.New().String(),
		OwnerID:    project.OwnerID,
		ProjectID:  projectID,
		CustomerID: customerID,
		Type:       input.Type,
		Status:     input.Status,
		Document:   input.Document,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}

	if createdCustomer != nil {
		if err := s.producer.PublishCustomerCreated(ctx, createdCustomer); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish customer.created event",
				slog.String("customer_id", createdCustomer.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishTestimonialCreated(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish testimonial.created event",
			slog.String("testimonial_id", t.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "testimonial created",
		slog.String("testimonial_id", t.ID),
		slog.String("project_id", projectID),
		slog.String("type", t.Type),
	)

	return t, nil
}

// UpdateTestimonialInput holds the parameters for a partial update. Document
// fields left nil are kept; Type changes the discriminant when set.
type UpdateTestimonialInput struct {
	Type     *string
	Document domain.Document
}

// Update merges a partial document into an existing testimonial. When the
// submitted email differs from the stored one, the customer identity is
// re-resolved and may reject the update with DuplicateEmail.
func (s *TestimonialService) Update(ctx context.Context, userID, projectID, id string, input UpdateTestimonialInput) (*domain.Testimonial, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("get testimonial for update: %w", err)
	}

	if input.Type != nil {
		if !domain.IsValidType(*input.Type) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("type %q is not supported", *input.Type))
		}
		t.Type = *input.Type
	}

	merged := t.Document.Merge(input.Document)

	emailChanged := input.Document.Email != nil &&
		domain.NormalizeEmail(input.Document.Email) != domain.NormalizeEmail(t.Document.Email)

	if emailChanged {
		customerID, createdCustomer, err := s.resolveCustomer(ctx, projectID, t, merged)
		if err != nil {
			return nil, err
		}
		t.CustomerID = customerID

		if createdCustomer != nil {
			if err := s.producer.PublishCustomerCreated(ctx, createdCustomer); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish customer.created event",
					slog.String("customer_id", createdCustomer.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	} else if t.CustomerID != nil {
		// Same identity, possibly new contact details.
		s.syncLinkedCustomer(ctx, projectID, *t.CustomerID, merged)
	}

	t.Document = merged

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}

	if err := s.producer.PublishTestimonialUpdated(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish testimonial.updated event",
			slog.String("testimonial_id", t.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "testimonial updated",
		slog.String("testimonial_id", t.ID),
		slog.String("project_id", projectID),
	)

	return t, nil
}

// SetStatus changes the lifecycle status of a testimonial.
func (s *TestimonialService) SetStatus(ctx context.Context, userID, projectID, id, status string) (*domain.Testimonial, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("status %q is not supported", status))
	}

	if err := s.repo.UpdateStatus(ctx, projectID, id, status); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("update testimonial status: %w", err)
	}

	t, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, fmt.Errorf("get testimonial after status update: %w", err)
	}

	if err := s.producer.PublishTestimonialUpdated(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish testimonial.updated event",
			slog.String("testimonial_id", t.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "testimonial status changed",
		slog.String("testimonial_id", id),
		slog.String("project_id", projectID),
		slog.String("status", status),
	)

	return t, nil
}

// Duplicate creates a new testimonial carrying a verbatim copy of an existing
// record's document, media references included. Shared references are safe:
// deletion reference-counts video assets across siblings.
func (s *TestimonialService) Duplicate(ctx context.Context, userID, projectID, id string) (*domain.Testimonial, error) {
	project, err := s.authorizeProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	src, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("testimonial", id)
		}
		return nil, fmt.Errorf("get testimonial for duplicate: %w", err)
	}

	now := time.Now().UTC()
	dup := &domain.Testimonial{
		ID:         uuid.New().String(),
		OwnerID:    project.OwnerID,
		ProjectID:  projectID,
		CustomerID: src.CustomerID,
		Type:       src.Type,
		Status:     src.Status,
		Document:   src.Document,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("create duplicate testimonial: %w", err)
	}

	if err := s.producer.PublishTestimonialCreated(ctx, dup); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish testimonial.created event",
			slog.String("testimonial_id", dup.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "testimonial duplicated",
		slog.String("source_id", src.ID),
		slog.String("testimonial_id", dup.ID),
		slog.String("project_id", projectID),
	)

	return dup, nil
}

// ResolveSelection loads the persisted id list for a display surface,
// resolves it against live records, drops stale ids, re-persists the cleaned
// list, and returns the surviving records in their selected order.
func (s *TestimonialService) ResolveSelection(ctx context.Context, userID, projectID, surfaceID string) ([]domain.ViewModel, []string, error) {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return nil, nil, err
	}

	ids, err := s.selections.Get(ctx, projectID, surfaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("load selection: %w", err)
	}

	records, err := s.repo.GetByIDs(ctx, projectID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve selection records: %w", err)
	}

	existing, existingIDs := domain.ResolveSelection(ids, records)

	// Self-heal: persist the cleaned list so stale ids vanish for good.
	// A persistence failure is not fatal; the next resolve cleans again.
	if len(existingIDs) != len(ids) {
		if err := s.selections.Put(ctx, projectID, surfaceID, existingIDs); err != nil {
			s.logger.WarnContext(ctx, "failed to re-persist cleaned selection",
				slog.String("project_id", projectID),
				slog.String("surface_id", surfaceID),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.InfoContext(ctx, "selection self-healed",
				slog.String("project_id", projectID),
				slog.String("surface_id", surfaceID),
				slog.Int("dropped", len(ids)-len(existingIDs)),
			)
		}
	}

	return toViewModels(existing), existingIDs, nil
}

// PutSelection persists an ordered testimonial id list for a display surface.
func (s *TestimonialService) PutSelection(ctx context.Context, userID, projectID, surfaceID string, ids []string) error {
	if _, err := s.authorizeProject(ctx, userID, projectID); err != nil {
		return err
	}

	if err := s.selections.Put(ctx, projectID, surfaceID, ids); err != nil {
		return fmt.Errorf("store selection: %w", err)
	}

	return nil
}

func toViewModels(records []domain.Testimonial) []domain.ViewModel {
	models := make([]domain.ViewModel, 0, len(records))
	for i := range records {
		models = append(models, domain.ViewModelFrom(&records[i]))
	}
	return models
}
