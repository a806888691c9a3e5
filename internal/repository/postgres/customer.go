package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/vouchwall/testimonial-service/pkg/errors"
	"github.com/vouchwall/testimonial-service/pkg/database"

	"github.com/vouchwall/testimonial-service/internal/domain"
)

const customerColumns = "id, project_id, email, full_name, headline, company, social_profiles, created_at, updated_at"

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	db database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer into the database. Losing the unique-index
// race on (project_id, email) surfaces as DuplicateEmail, matching what the
// identity resolver would have rejected proactively.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	companyJSON, socialJSON, err := marshalCustomerJSON(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (id, project_id, email, full_name, headline, company, social_profiles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		c.ID,
		c.ProjectID,
		c.Email,
		c.FullName,
		c.Headline,
		companyJSON,
		socialJSON,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateEmail(domain.NormalizeEmail(c.Email))
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by id within a project.
func (r *CustomerRepository) GetByID(ctx context.Context, projectID, id string) (*domain.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE project_id = $1 AND id = $2`, customerColumns)

	return r.scanCustomer(ctx, query, projectID, id)
}

// FindByEmail looks up a customer by normalized email within a project.
func (r *CustomerRepository) FindByEmail(ctx context.Context, projectID, email string) (*domain.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE project_id = $1 AND lower(btrim(email)) = $2`, customerColumns)

	return r.scanCustomer(ctx, query, projectID, email)
}

// Update modifies an existing customer in the database.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	companyJSON, socialJSON, err := marshalCustomerJSON(c)
	if err != nil {
		return err
	}

	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE customers
		SET email = $1, full_name = $2, headline = $3, company = $4, social_profiles = $5, updated_at = $6
		WHERE project_id = $7 AND id = $8`

	ct, err := r.db.Exec(ctx, query,
		c.Email,
		c.FullName,
		c.Headline,
		companyJSON,
		socialJSON,
		c.UpdatedAt,
		c.ProjectID,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateEmail(domain.NormalizeEmail(c.Email))
		}
		return fmt.Errorf("update customer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("customer", c.ID)
	}

	return nil
}

func marshalCustomerJSON(c *domain.Customer) (companyJSON, socialJSON []byte, err error) {
	companyJSON, err = json.Marshal(c.Company)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal company: %w", err)
	}
	socialJSON, err = json.Marshal(c.SocialProfiles)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal social profiles: %w", err)
	}
	return companyJSON, socialJSON, nil
}

// scanCustomer executes a query expected to return a single customer row.
func (r *CustomerRepository) scanCustomer(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	var (
		c           domain.Customer
		companyJSON []byte
		socialJSON  []byte
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.ProjectID,
		&c.Email,
		&c.FullName,
		&c.Headline,
		&companyJSON,
		&socialJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	if companyJSON != nil {
		if err := json.Unmarshal(companyJSON, &c.Company); err != nil {
			return nil, fmt.Errorf("unmarshal company: %w", err)
		}
	}
	if socialJSON != nil {
		if err := json.Unmarshal(socialJSON, &c.SocialProfiles); err != nil {
			return nil, fmt.Errorf("unmarshal social profiles: %w", err)
		}
	}

	return &c, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
