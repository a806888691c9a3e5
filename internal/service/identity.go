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
)

// resolveCustomer decides which customer entity a submission belongs to.
// existing is nil on create. The returned customer id is the link to store
// on the testimonial; createdCustomer is non-nil when a new customer row was
// inserted.
//
// Rules, per submission:
//   - No email: never search by email. A linked testimonial keeps its
//     customer; an unlinked one gets a fresh customer with no email.
//   - Email on create: an existing customer with that email is adopted and
//     its contact fields refreshed; an unused email gets a new customer.
//   - Email on update of an orphan record: a match with an existing customer
//     is rejected with DuplicateEmail. Orphans must not silently take over
//     another customer's identity.
//   - Email on update of a linked record: a match with a different customer
//     is rejected with DuplicateEmail; otherwise the linked customer is
//     updated in place.
//
// The per-project unique index on normalized email is the authoritative race
// guard; the repository translates a lost race (SQLSTATE 23505) into the
// same DuplicateEmail the proactive checks produce.
func (s *TestimonialService) resolveCustomer(ctx context.Context, projectID string, existing *domain.Testimonial, doc domain.Document) (*string, *domain.Customer, error) {
	email := domain.NormalizeEmail(doc.Email)

	var linkedID *string
	if existing != nil {
		linkedID = existing.CustomerID
	}

	if email == "" {
		if linkedID != nil {
			return linkedID, nil, nil
		}
		c, err := s.createCustomer(ctx, projectID, doc, nil)
		if err != nil {
			return nil, nil, err
		}
		return &c.ID, c, nil
	}

	found, err := s.customers.FindByEmail(ctx, projectID, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, fmt.Errorf("find customer by email: %w", err)
	}

	if linkedID == nil {
		if found != nil {
			if existing != nil {
				// Orphan update colliding with an existing identity.
				return nil, nil, apperrors.DuplicateEmail(email)
			}
			// Repeat submission: adopt the matching customer.
			s.applyContactFields(found, doc)
			if err := s.customers.Update(ctx, found); err != nil {
				return nil, nil, fmt.Errorf("update matched customer: %w", err)
			}
			return &found.ID, nil, nil
		}

		c, err := s.createCustomer(ctx, projectID, doc, doc.Email)
		if err != nil {
			return nil, nil, err
		}
		return &c.ID, c, nil
	}

	if found != nil && found.ID != *linkedID {
		return nil, nil, apperrors.DuplicateEmail(email)
	}

	linked, err := s.customers.GetByID(ctx, projectID, *linkedID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Dangling link; relink to a fresh customer holding the email.
			c, createErr := s.createCustomer(ctx, projectID, doc, doc.Email)
			if createErr != nil {
				return nil, nil, createErr
			}
			return &c.ID, c, nil
		}
		return nil, nil, fmt.Errorf("get linked customer: %w", err)
	}

	linked.Email = doc.Email
	s.applyContactFields(linked, doc)
	if err := s.customers.Update(ctx, linked); err != nil {
		return nil, nil, fmt.Errorf("update linked customer: %w", err)
	}

	return linkedID, nil, nil
}

// createCustomer inserts a new customer built from the document's contact
// fields. email may be nil for a fresh orphan identity.
func (s *TestimonialService) createCustomer(ctx context.Context, projectID string, doc domain.Document, email *string) (*domain.Customer, error) {
	now := time.Now().UTC()
	c := &domain.Customer{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyContactFields(c, doc)

	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return c, nil
}

// applyContactFields copies the document's contact fields onto a customer.
// Absent fields leave the customer's current values untouched.
func (s *TestimonialService) applyContactFields(c *domain.Customer, doc domain.Document) {
	if doc.AuthorName != nil {
		c.FullName = *doc.AuthorName
	}
	if doc.AuthorHeadline != nil {
		c.Headline = *doc.AuthorHeadline
	}
	if doc.Company != nil {
		c.Company = doc.Company
	}
}

// syncLinkedCustomer refreshes a linked customer's contact fields after a
// document update that kept the same email. Failures are logged, not
// surfaced; the testimonial update is the primary mutation.
func (s *TestimonialService) syncLinkedCustomer(ctx context.Context, projectID, customerID string, doc domain.Document) {
	c, err := s.customers.GetByID(ctx, projectID, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load linked customer for sync",
				slog.String("customer_id", customerID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.applyContactFields(c, doc)

	if err := s.customers.Update(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "failed to sync linked customer",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
}
